package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectEvents(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"type":"status","content":"thinking"}`,
		``,
		`data: {"type":"ai_message","content":"The document "}`,
		``,
		`data: {"type":"ai_message","content":"describes stormwater drainage."}`,
		``,
		`data: {"event":"done"}`,
		``,
	}, "\n")

	events, answer, err := collectEvents(strings.NewReader(stream))
	require.NoError(t, err)

	assert.Equal(t, "The document describes stormwater drainage.", answer)
	require.Len(t, events, 4)
	assert.Equal(t, "status", events[0].Type)
	assert.Equal(t, "ai_message", events[1].Type)
	assert.Equal(t, "done", events[3].Type)
}

func TestCollectEvents_BarePayloadWithoutDataPrefix(t *testing.T) {
	stream := `{"type":"ai_message","content":"answer"}`

	events, answer, err := collectEvents(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "answer", answer)
}

func TestCollectEvents_PlainTextChunks(t *testing.T) {
	stream := strings.Join([]string{
		`data: not json at all`,
		`data: {"type":"ai_message","content":"real answer"}`,
	}, "\n")

	events, answer, err := collectEvents(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Plain text chunks are preserved as events but never counted as answer.
	assert.Equal(t, "text", events[0].Type)
	assert.Equal(t, "not json at all", events[0].Content)
	assert.Equal(t, "real answer", answer)
}

func TestCollectEvents_ContentFallsBackToData(t *testing.T) {
	stream := `data: {"type":"ai_message","data":"via data field"}`

	_, answer, err := collectEvents(strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "via data field", answer)
}

func TestCollectEvents_Empty(t *testing.T) {
	events, answer, err := collectEvents(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, answer)
}

func TestCollectEvents_UntypedEventDefaultsToMessage(t *testing.T) {
	events, _, err := collectEvents(strings.NewReader(`data: {"content":"hm"}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "message", events[0].Type)
}
