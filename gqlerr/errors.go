// Package gqlerr holds the errors resolvers hand back to clients. Each error
// carries a machine readable code that graphql-go copies into the
// "extensions" member of the response.
package gqlerr

import (
	"github.com/graphql-go/graphql/gqlerrors"
)

// Code classifies an Error for clients.
type Code string

const (
	// Unauthenticated is returned when a field needs a current user and the
	// request carries none.
	Unauthenticated Code = "UNAUTHENTICATED"
	// BadUserInput is returned for rejected arguments and failed logins.
	BadUserInput Code = "BAD_USER_INPUT"
	// Internal hides unexpected failures from clients.
	Internal Code = "INTERNAL_SERVER_ERROR"
)

// Error is an error that is safe to show to GraphQL clients.
type Error struct {
	Message string
	Code    Code

	// InvalidArgs echoes the arguments that were rejected, for validation
	// failures only.
	InvalidArgs map[string]interface{}
}

var _ gqlerrors.ExtendedError = (*Error)(nil)

func (e *Error) Error() string {
	return e.Message
}

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.Code)}
	if e.InvalidArgs != nil {
		ext["invalidArgs"] = e.InvalidArgs
	}
	return ext
}

// Authentication is returned by fields that require a logged in user.
func Authentication() *Error {
	return &Error{Message: "not authenticated", Code: Unauthenticated}
}

// Validation wraps a rejected write. args are the field arguments exactly as
// the client sent them.
func Validation(message string, args map[string]interface{}) *Error {
	if args == nil {
		args = map[string]interface{}{}
	}
	return &Error{Message: message, Code: BadUserInput, InvalidArgs: args}
}

// InvalidCredentials is the single login failure. It does not say which check
// failed.
func InvalidCredentials() *Error {
	return &Error{Message: "wrong credentials", Code: BadUserInput}
}

// InternalError masks an unexpected failure. The cause must be logged by the
// caller.
func InternalError() *Error {
	return &Error{Message: "internal server error", Code: Internal}
}

// FromError converts transport level failures (bad body, panics) into the
// same shape graphql-go uses for execution errors.
func FromError(err error) []gqlerrors.FormattedError {
	if err == nil {
		return nil
	}
	f := gqlerrors.FormatError(err)
	if ext, ok := err.(gqlerrors.ExtendedError); ok {
		f.Extensions = ext.Extensions()
	}
	return []gqlerrors.FormattedError{f}
}
