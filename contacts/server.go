// Package contacts is the GraphQL surface of the phone book: the schema and
// the resolvers behind each field.
package contacts

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"go.appointy.com/phonebook"
	"go.appointy.com/phonebook/auth"
	"go.appointy.com/phonebook/schemabuilder"
	"go.appointy.com/phonebook/store"
)

// Server holds what the resolvers share across requests. Per request state
// travels in the context only.
type Server struct {
	store *store.Store
	codec *auth.Codec
	auth  *auth.Resolver
}

// NewServer returns a Server reading and writing st and signing tokens with
// codec.
func NewServer(st *store.Store, codec *auth.Codec) *Server {
	return &Server{
		store: st,
		codec: codec,
		auth:  auth.NewResolver(codec, st),
	}
}

// Schema builds the executable schema.
func (s *Server) Schema() (*graphql.Schema, error) {
	sb := schemabuilder.NewSchema()
	RegisterSchema(sb, s)
	return sb.Build()
}

// GraphqlHandler returns the /graphql handler. The session of each request is
// resolved from its Authorization header before any resolver runs; opts may
// add middlewares.
func (s *Server) GraphqlHandler(opts ...phonebook.HandlerOption) (http.Handler, error) {
	schema, err := s.Schema()
	if err != nil {
		return nil, err
	}

	opts = append([]phonebook.HandlerOption{phonebook.WithContext(s.auth.RequestContext)}, opts...)
	return phonebook.HTTPHandler(schema, opts...), nil
}
