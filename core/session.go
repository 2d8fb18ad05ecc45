package core

import (
	"context"
	"errors"
)

// SessionStore keeps signed-in profiles by session id.
type SessionStore interface {
	SetProfile(ctx context.Context, sessionID string, profile UserProfile) error
	Profile(ctx context.Context, sessionID string) (UserProfile, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// BindSession narrows store to the single session sessionID.
func BindSession(store SessionStore, sessionID string) SessionWriter {
	return boundSession{store: store, id: sessionID}
}

type boundSession struct {
	store SessionStore
	id    string
}

func (b boundSession) SetProfile(ctx context.Context, profile UserProfile) error {
	if b.store == nil || b.id == "" {
		return errors.New("session: not bound")
	}
	return b.store.SetProfile(ctx, b.id, profile)
}
