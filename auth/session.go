// Package auth turns the bearer token of a request into a Session and issues
// the tokens handed out by the login mutation.
package auth

import (
	"context"
	"sync"

	"go.appointy.com/phonebook/gqlerr"
	"go.appointy.com/phonebook/store"
)

// Session is the per request identity. The user is fixed when the session is
// built; only its friend list may be refreshed by the request's own writes.
type Session struct {
	mu   sync.RWMutex
	user *store.User
}

// NewSession returns a session for u. A nil u is an anonymous session.
func NewSession(u *store.User) *Session {
	return &Session{user: u}
}

// User returns the current user, or nil for anonymous sessions.
func (s *Session) User() *store.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether the session has a current user.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// Refresh swaps in a newer copy of the same user after it was saved. Copies
// of another user are ignored.
func (s *Session) Refresh(u *store.User) {
	if s == nil || u == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && s.user.ID == u.ID {
		s.user = u
	}
}

type ctxKey int

const sessionKey ctxKey = 0

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok && s != nil {
		return s
	}
	return NewSession(nil)
}

// CurrentUser is shorthand for FromContext(ctx).User().
func CurrentUser(ctx context.Context) *store.User {
	return FromContext(ctx).User()
}

// RequireUser returns the session of ctx, or an authentication error when it
// is anonymous.
func RequireUser(ctx context.Context) (*Session, error) {
	s := FromContext(ctx)
	if !s.Authenticated() {
		return nil, gqlerr.Authentication()
	}
	return s, nil
}
