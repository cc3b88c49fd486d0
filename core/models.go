package core

import "strings"

// SourceStatus is the processing state of a source as reported by the backend.
type SourceStatus string

const (
	// StatusPending indicates the source has been registered but processing
	// has not started yet.
	StatusPending SourceStatus = "pending"
	// StatusProcessing indicates the embedding job is running.
	StatusProcessing SourceStatus = "processing"
	// StatusComplete indicates the source was processed and embedded.
	StatusComplete SourceStatus = "complete"
	// StatusFailed indicates processing ended in an error.
	StatusFailed SourceStatus = "failed"
)

// ParseSourceStatus canonicalizes a status string from the backend.
// The backend uses a slightly different vocabulary than the one exposed
// by this library ("new", "running", "completed"); both forms are accepted.
func ParseSourceStatus(s string) (SourceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "new", "queued":
		return StatusPending, nil
	case "processing", "running":
		return StatusProcessing, nil
	case "complete", "completed":
		return StatusComplete, nil
	case "failed", "error":
		return StatusFailed, nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether polling should stop at this status.
func (s SourceStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Source is a backend-tracked document record created by upload.
// The backend assigns the ID; this library never mutates a source,
// it only observes status transitions through polling.
type Source struct {
	ID             string
	Title          string
	AssetFilePath  string // server-side path of the uploaded file, if any
	AssetURL       string
	Embedded       bool
	EmbeddedChunks int
	InsightsCount  int
	Created        string // backend timestamps are RFC 3339, so lexical order is chronological
	Updated        string
	FileAvailable  bool
	CommandID      string // background job ID when async processing was requested
	Status         string
	ProcessingInfo map[string]any
	Raw            map[string]any // original backend payload, kept verbatim
}

// StatusReport is the result of a status poll.
type StatusReport struct {
	SourceID       string
	Status         SourceStatus
	ProcessingInfo map[string]any
	Raw            map[string]any
}

// StreamEvent is a single event from a streaming chat response.
// Events the client does not recognize are preserved with their raw payload.
type StreamEvent struct {
	Type    string
	Content string
	Raw     map[string]any
}

// Answer is the backend's response to a question. Text is the concatenated
// AI answer; Events and Raw carry whatever else the backend sent, treated
// as opaque metadata.
type Answer struct {
	Text   string
	Events []StreamEvent
	Raw    map[string]any
}

// ChatSession is a source-scoped chat session created on the backend.
type ChatSession struct {
	ID       string
	SourceID string
	Title    string
	Raw      map[string]any
}

// Notebook is a backend notebook container for grouping sources.
type Notebook struct {
	ID   string
	Name string
	Raw  map[string]any
}

// NotebookResult is the outcome of the notebook ask pipeline.
type NotebookResult struct {
	NotebookID string
	SessionID  string
	Messages   []map[string]any
	Answer     string
}

// DefaultModels mirrors the backend's /models/defaults response.
// Empty fields mean the backend has no default configured.
type DefaultModels struct {
	EmbeddingModel      string `json:"default_embedding_model"`
	ChatModel           string `json:"default_chat_model"`
	TransformationModel string `json:"default_transformation_model"`
	LargeContextModel   string `json:"large_context_model"`
	TextToSpeechModel   string `json:"default_text_to_speech_model"`
	SpeechToTextModel   string `json:"default_speech_to_text_model"`
	ToolsModel          string `json:"default_tools_model"`
}
