package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/poiesic/notecall/core"
)

// createSessionRequest is the payload for creating a source-scoped chat session.
type createSessionRequest struct {
	SourceID      string `json:"source_id"`
	Title         string `json:"title"`
	ModelOverride string `json:"model_override,omitempty"`
}

// messageRequest is the payload for posting a message into a session.
type messageRequest struct {
	Message       string `json:"message"`
	ModelOverride string `json:"model_override,omitempty"`
}

// CreateSession creates a chat session scoped to a single source.
func (c *Client) CreateSession(ctx context.Context, sourceID, title, model string) (*core.ChatSession, error) {
	if err := core.ValidateSourceID(sourceID); err != nil {
		return nil, err
	}
	if title == "" {
		title = "query-" + shortID()
	}

	req := createSessionRequest{SourceID: sourceID, Title: title, ModelOverride: model}
	path := "/sources/" + sourceID + "/chat/sessions"

	c.logger.Info("creating source chat session", "source", sourceID, "title", title)

	var payload map[string]any
	if err := c.transport.PostJSON(ctx, path, req, &payload); err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	id, _ := payload["id"].(string)
	if id == "" {
		return nil, ErrMissingSessionID
	}

	return &core.ChatSession{ID: id, SourceID: sourceID, Title: title, Raw: payload}, nil
}

// Ask asks a question, optionally scoped to one or more sources.
//
// With source IDs the question goes through a source chat session: a session
// is created for the first source and the streamed response is collected,
// with ai_message events concatenated into the answer text. Without source
// IDs the question falls back to AskSimple.
func (c *Client) Ask(ctx context.Context, question string, sourceIDs []string, opts ...AskOption) (*core.Answer, error) {
	if len(sourceIDs) == 0 {
		return c.AskSimple(ctx, question, opts...)
	}
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}
	o := buildAskOptions(opts)

	sourceID := sourceIDs[0]
	defaults := c.fetchDefaults(ctx)
	model := firstNonEmpty(o.modelOverride, defaults.TransformationModel, defaults.ChatModel, c.defaultModel)

	session, err := c.CreateSession(ctx, sourceID, "", model)
	if err != nil {
		return nil, err
	}

	path := "/sources/" + sourceID + "/chat/sessions/" + session.ID + "/messages"
	c.logger.Info("streaming chat message", "source", sourceID, "session", session.ID)

	body, err := c.transport.PostStream(ctx, path, messageRequest{Message: question, ModelOverride: model})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	events, text, err := collectEvents(body)
	if err != nil {
		return nil, err
	}

	return &core.Answer{Text: text, Events: events}, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
