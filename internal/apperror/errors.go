package apperror

import "errors"

// Sentinel errors for the assistant engine. Handlers and services match on
// these with errors.Is; the HTTP layer maps them to status codes in
// serverutils.ErrorHandlerMiddleware.
var (
	// ErrStoreUnavailable means the backing content/session store is
	// unreachable. Inside a chat turn retrieval degrades to an empty
	// context set instead of surfacing this to the end user.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidMessage means the caller supplied a malformed chat message
	// (unknown role or empty text). Caller bug, surfaced directly.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrSessionClosed means an append was attempted on a deactivated
	// session. Callers must start a new session key to resume.
	ErrSessionClosed = errors.New("session closed")

	// ErrInferenceUnavailable means the model is not ready. Triggers the
	// fallback reply path, never a user-visible error.
	ErrInferenceUnavailable = errors.New("inference unavailable")

	// ErrInferenceCallFailed means the generation call itself failed
	// (network/timeout). Single attempt only, absorbed into a fallback.
	ErrInferenceCallFailed = errors.New("inference call failed")

	// ErrPullFailed means model provisioning failed. Surfaced via the
	// status endpoint, operator-actionable, never auto-retried.
	ErrPullFailed = errors.New("model pull failed")

	ErrSessionNotFound = errors.New("session not found")
)
