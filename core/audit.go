package core

import (
	"context"
)

// Login methods recorded by AuthEventLogger.
const (
	MethodPassword = "password"
	MethodGoogle   = "google"
)

// AuthEventLogger records successful sign-ins to an external sink.
// Implementations should be non-blocking and best-effort.
type AuthEventLogger interface {
	LogLogin(ctx context.Context, email string, method string, sessionID string, ip *string, userAgent *string) error
}
