// Package-level error variables for transport, covering session lifecycle,
// registration, and wait outcomes for the MCP endpoint.
package transport

import (
	"net/http"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

var (
	// ErrTransportError is the base error for transport errors.
	ErrTransportError apperrors.Error = apperrors.New("transport error").SetStatusCode(http.StatusInternalServerError)

	// ErrSessionClosed is returned when a request arrives after session
	// termination has begun. New registrations are rejected in this state.
	ErrSessionClosed apperrors.Error = ErrTransportError.New("session closed").SetStatusCode(http.StatusServiceUnavailable)

	// ErrSessionTerminated resolves pending waiters when the session is
	// terminated while they are still waiting for a reply.
	ErrSessionTerminated apperrors.Error = ErrTransportError.New("session terminated while request was pending").SetStatusCode(http.StatusServiceUnavailable)

	// ErrTooManyPending is returned when the outstanding-request cap is reached.
	ErrTooManyPending apperrors.Error = ErrTransportError.New("too many pending requests").SetStatusCode(http.StatusTooManyRequests)

	// ErrWaitTimeout is returned when a single request exceeds the configured
	// idle timeout. The session itself is unaffected.
	ErrWaitTimeout apperrors.Error = ErrTransportError.New("timed out waiting for reply").SetStatusCode(http.StatusRequestTimeout)

	// ErrWaitAborted is returned when the caller abandons the wait, typically
	// on client disconnect.
	ErrWaitAborted apperrors.Error = ErrTransportError.New("request aborted").SetStatusCode(http.StatusServiceUnavailable)

	// ErrStreamFinished is returned when publishing to a finished stream.
	ErrStreamFinished apperrors.Error = ErrTransportError.New("message stream finished").SetStatusCode(http.StatusServiceUnavailable)
)
