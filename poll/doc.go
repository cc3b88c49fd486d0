// Package poll watches the processing status of backend sources.
//
// The backend embeds uploaded documents asynchronously; Poller.Wait blocks
// at a fixed interval until the job reaches a terminal state (complete or
// failed) or the configured timeout elapses. Timeouts surface as
// *core.TimeoutError, never as a silent return.
package poll
