package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.appointy.com/phonebook/store"
)

const bearerPrefix = "bearer "

// UserLoader loads a user with its friends populated.
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*store.User, error)
}

// Resolver builds the Session of a request from its Authorization header.
type Resolver struct {
	codec *Codec
	users UserLoader
}

// NewResolver returns a Resolver verifying tokens with codec and loading
// users from users.
func NewResolver(codec *Codec, users UserLoader) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// Authenticate resolves header into a Session. Missing, malformed or
// unverifiable credentials give an anonymous session; only store failures
// are returned as errors.
func (r *Resolver) Authenticate(ctx context.Context, header string) (*Session, error) {
	token, ok := BearerToken(header)
	if !ok {
		return NewSession(nil), nil
	}

	claims, err := r.codec.Verify(token)
	if err != nil {
		glog.V(2).Infof("Ignoring bearer token: %v", err)
		return NewSession(nil), nil
	}

	u, err := r.users.UserByID(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		glog.V(2).Infof("Token for %s references a missing user %s", claims.Username, claims.ID)
		return NewSession(nil), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading current user")
	}
	return NewSession(u), nil
}

// RequestContext derives the execution context of r. It has the signature of
// phonebook.ContextFunc.
func (r *Resolver) RequestContext(req *http.Request) (context.Context, error) {
	s, err := r.Authenticate(req.Context(), req.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return WithSession(req.Context(), s), nil
}
