package query

import (
	"context"
	"fmt"

	"github.com/poiesic/notecall/core"
)

// notebookOptions carries per-call settings for the notebook pipeline.
type notebookOptions struct {
	notebookID    string
	sessionID     string
	modelOverride string
}

// NotebookOption configures a NotebookAsk call.
type NotebookOption func(*notebookOptions)

// WithNotebookID reuses an existing notebook instead of creating a
// temporary one.
func WithNotebookID(id string) NotebookOption {
	return func(o *notebookOptions) { o.notebookID = id }
}

// WithSessionID reuses an existing notebook chat session.
func WithSessionID(id string) NotebookOption {
	return func(o *notebookOptions) { o.sessionID = id }
}

// WithNotebookModel forces a chat model for the execute step.
func WithNotebookModel(model string) NotebookOption {
	return func(o *notebookOptions) { o.modelOverride = model }
}

type createNotebookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type buildContextRequest struct {
	NotebookID    string         `json:"notebook_id"`
	ContextConfig map[string]any `json:"context_config"`
}

type createNotebookSessionRequest struct {
	NotebookID string `json:"notebook_id"`
	Title      string `json:"title"`
}

type executeChatRequest struct {
	SessionID     string `json:"session_id"`
	Message       string `json:"message"`
	Context       any    `json:"context"`
	ModelOverride string `json:"model_override,omitempty"`
}

// NotebookAsk runs the notebook pipeline (search -> transform -> chat)
// scoped to a single source:
//
//  1. fetch default models (best effort)
//  2. create a temporary notebook unless one is supplied
//  3. link the source to the notebook
//  4. build chat context with the source's full content
//  5. create a notebook chat session unless one is supplied
//  6. execute the chat with the built context
//
// The answer is the content of the last AI message in the execute response.
func (c *Client) NotebookAsk(ctx context.Context, sourceID, message string, opts ...NotebookOption) (*core.NotebookResult, error) {
	if err := core.ValidateSourceID(sourceID); err != nil {
		return nil, err
	}
	if err := core.ValidateQuestion(message); err != nil {
		return nil, err
	}

	var o notebookOptions
	for _, opt := range opts {
		opt(&o)
	}

	defaults := c.fetchDefaults(ctx)

	notebookID := o.notebookID
	if notebookID == "" {
		notebook, err := c.createNotebook(ctx)
		if err != nil {
			return nil, err
		}
		notebookID = notebook.ID
	}

	if err := c.linkSource(ctx, notebookID, sourceID); err != nil {
		return nil, err
	}

	builtContext, err := c.buildContext(ctx, notebookID, sourceID)
	if err != nil {
		return nil, err
	}

	sessionID := o.sessionID
	if sessionID == "" {
		sessionID, err = c.createNotebookSession(ctx, notebookID)
		if err != nil {
			return nil, err
		}
	}

	model := firstNonEmpty(o.modelOverride, defaults.ChatModel, c.defaultModel)
	c.logger.Info("executing notebook chat", "notebook", notebookID, "session", sessionID, "model", model)

	var execPayload map[string]any
	execReq := executeChatRequest{
		SessionID:     sessionID,
		Message:       message,
		Context:       builtContext,
		ModelOverride: model,
	}
	if err := c.transport.PostJSON(ctx, "/chat/execute", execReq, &execPayload); err != nil {
		return nil, fmt.Errorf("execute chat: %w", err)
	}

	messages := toHits(listField(execPayload, "messages"))
	return &core.NotebookResult{
		NotebookID: notebookID,
		SessionID:  sessionID,
		Messages:   messages,
		Answer:     lastAIMessage(messages),
	}, nil
}

func (c *Client) createNotebook(ctx context.Context) (*core.Notebook, error) {
	name := "temp-notebook-" + shortID()
	req := createNotebookRequest{
		Name:        name,
		Description: "Temporary notebook for source-scoped query",
	}

	c.logger.Info("creating notebook", "name", name)

	var payload map[string]any
	if err := c.transport.PostJSON(ctx, "/notebooks", req, &payload); err != nil {
		return nil, fmt.Errorf("create notebook: %w", err)
	}

	id, _ := payload["id"].(string)
	if id == "" {
		return nil, ErrMissingNotebookID
	}
	return &core.Notebook{ID: id, Name: name, Raw: payload}, nil
}

func (c *Client) linkSource(ctx context.Context, notebookID, sourceID string) error {
	path := "/notebooks/" + notebookID + "/sources/" + sourceID
	c.logger.Info("linking source to notebook", "notebook", notebookID, "source", sourceID)

	if err := c.transport.PostJSON(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("link source to notebook: %w", err)
	}
	return nil
}

// buildContext runs the transformation model server-side and returns the
// built context payload, passed through opaquely to the execute step.
func (c *Client) buildContext(ctx context.Context, notebookID, sourceID string) (any, error) {
	req := buildContextRequest{
		NotebookID: notebookID,
		ContextConfig: map[string]any{
			"sources": map[string]any{sourceID: "full content"},
			"notes":   map[string]any{},
		},
	}

	var payload map[string]any
	if err := c.transport.PostJSON(ctx, "/chat/context", req, &payload); err != nil {
		return nil, fmt.Errorf("build notebook context: %w", err)
	}

	c.logger.Info("notebook context built",
		"token_count", payload["token_count"], "char_count", payload["char_count"])

	return payload["context"], nil
}

func (c *Client) createNotebookSession(ctx context.Context, notebookID string) (string, error) {
	req := createNotebookSessionRequest{
		NotebookID: notebookID,
		Title:      "nb-session-" + shortID(),
	}

	var payload map[string]any
	if err := c.transport.PostJSON(ctx, "/chat/sessions", req, &payload); err != nil {
		return "", fmt.Errorf("create notebook session: %w", err)
	}

	id, _ := payload["id"].(string)
	if id == "" {
		return "", ErrMissingSessionID
	}
	return id, nil
}

func listField(m map[string]any, key string) []any {
	list, _ := m[key].([]any)
	return list
}

func lastAIMessage(messages []map[string]any) string {
	if len(messages) == 0 {
		return ""
	}
	last := messages[len(messages)-1]
	if t, _ := last["type"].(string); t == "ai" {
		content, _ := last["content"].(string)
		return content
	}
	return ""
}
