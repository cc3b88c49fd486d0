package query

import (
	"context"

	"github.com/poiesic/notecall/core"
)

// askOptions carries per-question settings.
type askOptions struct {
	modelOverride string
	limit         int
}

// AskOption configures a single ask call.
type AskOption func(*askOptions)

// WithModelOverride forces a specific model ID for this question instead of
// the backend's configured defaults.
func WithModelOverride(model string) AskOption {
	return func(o *askOptions) { o.modelOverride = model }
}

// WithLimit caps the number of context passages used to answer.
func WithLimit(limit int) AskOption {
	return func(o *askOptions) { o.limit = limit }
}

func buildAskOptions(opts []AskOption) askOptions {
	o := askOptions{limit: 20}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// askSimpleRequest is the payload for POST /search/ask/simple.
type askSimpleRequest struct {
	Question         string `json:"question"`
	StrategyModel    string `json:"strategy_model,omitempty"`
	AnswerModel      string `json:"answer_model,omitempty"`
	FinalAnswerModel string `json:"final_answer_model,omitempty"`
}

// AskSimple asks a question against everything the backend has embedded,
// without scoping to particular sources. Model selection: an explicit
// override wins, then the backend's defaults, then the client's default.
func (c *Client) AskSimple(ctx context.Context, question string, opts ...AskOption) (*core.Answer, error) {
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}
	o := buildAskOptions(opts)

	defaults := c.fetchDefaults(ctx)
	strategy := firstNonEmpty(defaults.TransformationModel, defaults.ChatModel, c.defaultModel)
	answer := firstNonEmpty(defaults.ChatModel, c.defaultModel)

	req := askSimpleRequest{
		Question:         question,
		StrategyModel:    strategy,
		AnswerModel:      answer,
		FinalAnswerModel: answer,
	}
	if o.modelOverride != "" {
		req.StrategyModel = o.modelOverride
		req.AnswerModel = o.modelOverride
		req.FinalAnswerModel = o.modelOverride
	}

	c.logger.Info("sending simple ask", "strategy_model", req.StrategyModel)

	var payload map[string]any
	if err := c.transport.PostJSON(ctx, "/search/ask/simple", req, &payload); err != nil {
		return nil, err
	}

	text, _ := payload["answer"].(string)
	return &core.Answer{Text: text, Raw: payload}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
