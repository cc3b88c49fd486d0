package poll

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/notecall/backend/mock"
	"github.com/poiesic/notecall/core"
)

// statusSequence serves each status in order, repeating the last one.
func statusSequence(transport *mock.MockTransport, statuses ...string) *int {
	calls := 0
	transport.GetJSONFunc = func(ctx context.Context, path string, query url.Values, out any) error {
		status := statuses[min(calls, len(statuses)-1)]
		calls++
		*(out.(*map[string]any)) = map[string]any{
			"status":          status,
			"processing_info": map[string]any{"stage": status},
		}
		return nil
	}
	return &calls
}

func newTestPoller(t *testing.T, transport *mock.MockTransport, opts ...Option) *Poller {
	t.Helper()
	opts = append([]Option{WithInterval(5 * time.Millisecond), WithTimeout(time.Second)}, opts...)
	poller, err := NewPoller(transport, opts...)
	require.NoError(t, err)
	return poller
}

func TestNewPoller(t *testing.T) {
	t.Run("requires transport", func(t *testing.T) {
		_, err := NewPoller(nil)
		assert.ErrorIs(t, err, ErrTransportRequired)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		_, err := NewPoller(mock.NewMockTransport(), WithInterval(0))
		assert.Error(t, err)
	})

	t.Run("rejects negative timeout", func(t *testing.T) {
		_, err := NewPoller(mock.NewMockTransport(), WithTimeout(-time.Second))
		assert.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	transport := mock.NewMockTransport()
	statusSequence(transport, "running")

	poller := newTestPoller(t, transport)
	report, err := poller.Check(context.Background(), "src_1")
	require.NoError(t, err)

	assert.Equal(t, "src_1", report.SourceID)
	assert.Equal(t, core.StatusProcessing, report.Status)
	assert.Equal(t, "running", report.ProcessingInfo["stage"])
	assert.Equal(t, []string{"GET /sources/src_1/status"}, transport.Calls())
}

func TestCheck_EmptySourceID(t *testing.T) {
	poller := newTestPoller(t, mock.NewMockTransport())
	_, err := poller.Check(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptySourceID)
}

func TestCheck_UnknownStatus(t *testing.T) {
	transport := mock.NewMockTransport()
	statusSequence(transport, "exploded")

	poller := newTestPoller(t, transport)
	_, err := poller.Check(context.Background(), "src_1")
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
}

func TestWait_TerminatesOnComplete(t *testing.T) {
	transport := mock.NewMockTransport()
	calls := statusSequence(transport, "running", "running", "completed")

	poller := newTestPoller(t, transport)
	report, err := poller.Wait(context.Background(), "src_1")
	require.NoError(t, err)

	assert.Equal(t, core.StatusComplete, report.Status)
	assert.Equal(t, 3, *calls, "should stop polling at the first terminal status")
}

func TestWait_TerminatesOnFailed(t *testing.T) {
	transport := mock.NewMockTransport()
	statusSequence(transport, "running", "failed")

	poller := newTestPoller(t, transport)
	report, err := poller.Wait(context.Background(), "src_1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, report.Status)
}

func TestWait_Timeout(t *testing.T) {
	transport := mock.NewMockTransport()
	statusSequence(transport, "running") // never terminal

	poller := newTestPoller(t, transport, WithTimeout(30*time.Millisecond))
	_, err := poller.Wait(context.Background(), "src_1")
	require.Error(t, err)

	var timeoutErr *core.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "src_1", timeoutErr.SourceID)
	assert.Equal(t, core.StatusProcessing, timeoutErr.LastStatus)
}

func TestWait_BackendErrorEndsWait(t *testing.T) {
	transport := mock.NewMockTransport()
	transport.GetJSONFunc = func(ctx context.Context, path string, query url.Values, out any) error {
		return &core.BackendError{StatusCode: 404, Message: "source not found"}
	}

	poller := newTestPoller(t, transport)
	_, err := poller.Wait(context.Background(), "src_missing")
	require.Error(t, err)

	var backendErr *core.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, 404, backendErr.StatusCode)
	assert.Equal(t, 1, transport.CallCount(), "backend errors should not be retried")
}

func TestWait_RetriesTransportErrors(t *testing.T) {
	transport := mock.NewMockTransport()
	calls := 0
	transport.GetJSONFunc = func(ctx context.Context, path string, query url.Values, out any) error {
		calls++
		if calls < 3 {
			return &core.TransportError{Op: "GET /sources/src_1/status", Err: assert.AnError}
		}
		*(out.(*map[string]any)) = map[string]any{"status": "completed"}
		return nil
	}

	poller := newTestPoller(t, transport)
	report, err := poller.Wait(context.Background(), "src_1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusComplete, report.Status)
	assert.Equal(t, 3, calls)
}

func TestWait_ContextCanceled(t *testing.T) {
	transport := mock.NewMockTransport()
	statusSequence(transport, "running")

	ctx, cancel := context.WithCancel(context.Background())
	poller := newTestPoller(t, transport, WithTimeout(0)) // no deadline, context only

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := poller.Wait(ctx, "src_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
