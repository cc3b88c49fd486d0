package mock

import (
	"context"
	"io"
	"net/url"
)

// MockTransport is a test double for backend.Transport.
// It allows custom behavior injection via function fields; methods with a
// nil function field succeed without touching out.
type MockTransport struct {
	// GetJSONFunc is called by GetJSON if set.
	GetJSONFunc func(ctx context.Context, path string, query url.Values, out any) error

	// PostJSONFunc is called by PostJSON if set.
	PostJSONFunc func(ctx context.Context, path string, body any, out any) error

	// PostMultipartFunc is called by PostMultipart if set.
	PostMultipartFunc func(ctx context.Context, path string, fields map[string]string,
		fileField, fileName string, file io.Reader, out any) error

	// PostStreamFunc is called by PostStream if set.
	// If nil, PostStream returns an empty stream.
	PostStreamFunc func(ctx context.Context, path string, body any) (io.ReadCloser, error)

	callCount int
	calls     []string
}

// NewMockTransport creates a mock transport with default no-op behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// GetJSON records the call and delegates to GetJSONFunc when set.
func (m *MockTransport) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	m.record("GET " + path)
	if m.GetJSONFunc != nil {
		return m.GetJSONFunc(ctx, path, query, out)
	}
	return nil
}

// PostJSON records the call and delegates to PostJSONFunc when set.
func (m *MockTransport) PostJSON(ctx context.Context, path string, body any, out any) error {
	m.record("POST " + path)
	if m.PostJSONFunc != nil {
		return m.PostJSONFunc(ctx, path, body, out)
	}
	return nil
}

// PostMultipart records the call and delegates to PostMultipartFunc when set.
func (m *MockTransport) PostMultipart(ctx context.Context, path string, fields map[string]string,
	fileField, fileName string, file io.Reader, out any) error {
	m.record("POST " + path)
	if m.PostMultipartFunc != nil {
		return m.PostMultipartFunc(ctx, path, fields, fileField, fileName, file, out)
	}
	return nil
}

// PostStream records the call and delegates to PostStreamFunc when set.
func (m *MockTransport) PostStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	m.record("POST " + path)
	if m.PostStreamFunc != nil {
		return m.PostStreamFunc(ctx, path, body)
	}
	return io.NopCloser(&emptyReader{}), nil
}

// CallCount returns the number of times any method was called.
func (m *MockTransport) CallCount() int {
	return m.callCount
}

// Calls returns the method-and-path of every call, in order.
func (m *MockTransport) Calls() []string {
	return m.calls
}

// Reset clears recorded calls and injected behavior.
func (m *MockTransport) Reset() {
	m.callCount = 0
	m.calls = nil
	m.GetJSONFunc = nil
	m.PostJSONFunc = nil
	m.PostMultipartFunc = nil
	m.PostStreamFunc = nil
}

func (m *MockTransport) record(call string) {
	m.callCount++
	m.calls = append(m.calls, call)
}

type emptyReader struct{}

func (*emptyReader) Read([]byte) (int, error) { return 0, io.EOF }
