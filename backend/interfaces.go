package backend

import (
	"context"
	"io"
	"net/url"
)

// Transport performs HTTP calls against the backend API.
// Implementations must be thread-safe for concurrent use.
//
// Paths are relative to the configured API base URL (for example
// "/sources" or "/sources/src_1/status"). Success responses are decoded
// into out when out is non-nil; a nil out discards the body.
//
// Error contract, shared by all methods:
//   - the call never reached the backend      -> *core.TransportError
//   - the backend answered non-2xx            -> *core.BackendError
//   - the success body could not be decoded   -> plain wrapped error
type Transport interface {
	// GetJSON issues a GET request with optional query parameters.
	GetJSON(ctx context.Context, path string, query url.Values, out any) error

	// PostJSON issues a POST request with a JSON-encoded body.
	PostJSON(ctx context.Context, path string, body any, out any) error

	// PostMultipart issues a POST request with multipart form fields and a
	// single file part named fileField.
	PostMultipart(ctx context.Context, path string, fields map[string]string,
		fileField, fileName string, file io.Reader, out any) error

	// PostStream issues a POST request with a JSON body and returns the raw
	// response body for line-by-line consumption (server-sent events).
	// The caller must close the returned reader.
	PostStream(ctx context.Context, path string, body any) (io.ReadCloser, error)
}
