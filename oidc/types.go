package oidckit

import (
	"context"
	"time"
)

// StateData is what a started authorization flow remembers until its callback.
type StateData struct {
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	// CodeVerifier is the PKCE secret whose S256 challenge went to Google.
	CodeVerifier string `json:"code_verifier"`
}

// StateCache holds pending authorization states. Take returns and removes an
// entry in one step so a state can be redeemed at most once.
type StateCache interface {
	Put(ctx context.Context, state string, v StateData) error
	Take(ctx context.Context, state string) (StateData, bool, error)
}
