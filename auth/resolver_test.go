package auth_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.appointy.com/phonebook/auth"
	"go.appointy.com/phonebook/gqlerr"
	"go.appointy.com/phonebook/store"
)

type fakeUsers map[string]*store.User

func (f fakeUsers) UserByID(_ context.Context, id string) (*store.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := f[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"bearer abc": "abc",
		"Bearer abc": "abc",
		"BEARER abc": "abc",
	} {
		got, ok := auth.BearerToken(header)
		require.True(t, ok, header)
		require.Equal(t, want, got)
	}
	for _, header := range []string{"", "Basic abc", "bearer", "Bearerabc"} {
		_, ok := auth.BearerToken(header)
		require.False(t, ok, header)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	codec := newCodec(t, "s3cr3t")
	alice := &store.User{ID: "u1", Username: "alice"}
	r := auth.NewResolver(codec, fakeUsers{"u1": alice})

	issue := func(c auth.Claims) string {
		token, err := codec.Issue(c)
		require.NoError(t, err)
		return token
	}

	s, err := r.Authenticate(ctx, "bearer "+issue(auth.Claims{Username: "alice", ID: "u1"}))
	require.NoError(t, err)
	require.True(t, s.Authenticated())
	require.Equal(t, alice, s.User())

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Basic abc",
		"bad token":    "bearer abc",
		"missing user": "bearer " + issue(auth.Claims{Username: "ghost", ID: "u9"}),
	} {
		t.Run(name, func(t *testing.T) {
			s, err := r.Authenticate(ctx, header)
			require.NoError(t, err)
			require.False(t, s.Authenticated())
		})
	}

	_, err = r.Authenticate(ctx, "bearer "+issue(auth.Claims{Username: "x", ID: "broken"}))
	require.Error(t, err)
}

func TestRequestContext(t *testing.T) {
	codec := newCodec(t, "s3cr3t")
	alice := &store.User{ID: "u1", Username: "alice"}
	r := auth.NewResolver(codec, fakeUsers{"u1": alice})

	token, err := codec.Issue(auth.Claims{Username: "alice", ID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ctx, err := r.RequestContext(req)
	require.NoError(t, err)
	require.Equal(t, alice, auth.CurrentUser(ctx))

	ctx, err = r.RequestContext(httptest.NewRequest("POST", "/graphql", nil))
	require.NoError(t, err)
	require.Nil(t, auth.CurrentUser(ctx))
}

func TestRequireUser(t *testing.T) {
	_, err := auth.RequireUser(context.Background())
	var gerr *gqlerr.Error
	require.True(t, errors.As(err, &gerr))
	require.Equal(t, gqlerr.Unauthenticated, gerr.Code)

	alice := &store.User{ID: "u1", Username: "alice"}
	s, err := auth.RequireUser(auth.WithSession(context.Background(), auth.NewSession(alice)))
	require.NoError(t, err)
	require.Equal(t, alice, s.User())
}

func TestSessionRefresh(t *testing.T) {
	alice := &store.User{ID: "u1", Username: "alice"}
	s := auth.NewSession(alice)

	s.Refresh(&store.User{ID: "u2", Username: "bob"})
	require.Equal(t, alice, s.User())

	next := alice.WithFriend(&store.Person{ID: "p1"})
	s.Refresh(next)
	require.Equal(t, next, s.User())

	anon := auth.NewSession(nil)
	anon.Refresh(next)
	require.False(t, anon.Authenticated())
}
