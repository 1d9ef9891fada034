package gqlerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/phonebook/gqlerr"
)

func TestExtensions(t *testing.T) {
	require.Equal(t, map[string]interface{}{"code": "UNAUTHENTICATED"}, gqlerr.Authentication().Extensions())
	require.Equal(t, "not authenticated", gqlerr.Authentication().Error())

	args := map[string]interface{}{"name": "Bob"}
	ext := gqlerr.Validation("too short", args).Extensions()
	require.Equal(t, "BAD_USER_INPUT", ext["code"])
	require.Equal(t, args, ext["invalidArgs"])

	require.NotNil(t, gqlerr.Validation("x", nil).InvalidArgs)
}

func TestInvalidCredentialsIsUniform(t *testing.T) {
	a, b := gqlerr.InvalidCredentials(), gqlerr.InvalidCredentials()
	require.Equal(t, a, b)
	require.NotContains(t, a.Extensions(), "invalidArgs")
}

func TestFromError(t *testing.T) {
	require.Nil(t, gqlerr.FromError(nil))

	errs := gqlerr.FromError(errors.New("request must be a POST"))
	require.Len(t, errs, 1)
	require.Equal(t, "request must be a POST", errs[0].Message)
	require.Nil(t, errs[0].Extensions)

	errs = gqlerr.FromError(gqlerr.InternalError())
	require.Equal(t, "INTERNAL_SERVER_ERROR", errs[0].Extensions["code"])
}
