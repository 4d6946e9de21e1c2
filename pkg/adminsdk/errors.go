package adminsdk

import "errors"

var (
	// ErrMissingCredentials reports an empty username or password. The
	// submission is rejected before any network call is made.
	ErrMissingCredentials = errors.New("adminsdk: username and password are required")

	// ErrSubmissionInFlight reports that a submission is already underway on
	// this form. No second network call is made.
	ErrSubmissionInFlight = errors.New("adminsdk: a submission is already in flight")

	// ErrAuthenticationFailed covers every login failure mode: transport
	// errors, non-2xx responses, success=false bodies, and malformed
	// payloads. Callers wrap the underlying cause; the user-facing
	// notification never carries it.
	ErrAuthenticationFailed = errors.New("adminsdk: authentication failed")
)
