package query

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/notecall/core"
)

// maxStreamLine bounds a single SSE line; chat chunks can carry whole
// document extracts.
const maxStreamLine = 1 << 20

// collectEvents reads a server-sent event stream to completion, returning
// every event plus the concatenated text of all ai_message events.
//
// Lines are either `data: {json}` or bare payloads; blank lines separate
// events. Payloads that are not JSON are preserved as text events but do
// not contribute to the answer.
func collectEvents(r io.Reader) ([]core.StreamEvent, string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLine)

	var events []core.StreamEvent
	var answer strings.Builder

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		body := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		var payload map[string]any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			events = append(events, core.StreamEvent{Type: "text", Content: body})
			continue
		}

		event := core.StreamEvent{
			Type:    eventType(payload),
			Content: eventContent(payload),
			Raw:     payload,
		}
		events = append(events, event)

		if event.Type == "ai_message" {
			answer.WriteString(event.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return events, answer.String(), fmt.Errorf("read event stream: %w", err)
	}

	return events, answer.String(), nil
}

func eventType(payload map[string]any) string {
	if t, ok := payload["type"].(string); ok && t != "" {
		return t
	}
	if t, ok := payload["event"].(string); ok && t != "" {
		return t
	}
	return "message"
}

func eventContent(payload map[string]any) string {
	if s, ok := payload["content"].(string); ok && s != "" {
		return s
	}
	if s, ok := payload["data"].(string); ok {
		return s
	}
	return ""
}
