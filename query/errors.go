package query

import "errors"

var (
	// ErrTransportRequired is returned when a backend transport is not provided.
	ErrTransportRequired = errors.New("backend transport required")

	// ErrMissingSessionID indicates the backend created a session without an ID.
	ErrMissingSessionID = errors.New("backend session response missing id")

	// ErrMissingNotebookID indicates the backend created a notebook without an ID.
	ErrMissingNotebookID = errors.New("backend notebook response missing id")
)
