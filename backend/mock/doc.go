// Package mock provides a test double implementation of backend.Transport.
//
// The mock allows tests of the upload, poll, and query packages to run
// without a live backend and enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	transport := mock.NewMockTransport()
//	transport.GetJSONFunc = func(ctx context.Context, path string, query url.Values, out any) error {
//	    *(out.(*map[string]any)) = map[string]any{"status": "completed"}
//	    return nil
//	}
//
//	// Check recorded calls
//	count := transport.CallCount()
//	calls := transport.Calls()
package mock
