package core

import "errors"

// User-visible messages. Every failure of the login screen ends up as one of
// these strings, or as the backend's own rejection text.
const (
	MsgLoginFailed        = "An error occurred during login"
	MsgGoogleFailed       = "Google login failed. Please try again."
	MsgNotGoogleAccount   = "Account wasn't created using Google. Enter credentials."
	MsgGoogleLookupFailed = "An error occurred. Please try again."
)

// ErrNotFound is returned by lookups and stores when no record exists.
var ErrNotFound = errors.New("not_found")

// RejectionError is a login failure that carries a human-readable reason
// from the backend. The screen shows Reason verbatim.
type RejectionError struct {
	Status int
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return "login rejected"
	}
	return "login rejected: " + e.Reason
}

// rejectionReason returns the string reason carried by err, if any.
func rejectionReason(err error) (string, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) && rej.Reason != "" {
		return rej.Reason, true
	}
	return "", false
}
