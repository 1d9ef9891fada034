// Package schemabuilder assembles a graphql-go schema from an explicit table
// of objects, enums and resolvers.
package schemabuilder

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
)

// Schema collects objects and enums until Build is called.
type Schema struct {
	objects map[string]*Object
	order   []string
	enums   map[string]*graphql.Enum
}

// NewSchema creates a new schema.
func NewSchema() *Schema {
	return &Schema{
		objects: make(map[string]*Object),
		enums:   make(map[string]*graphql.Enum),
	}
}

// Query returns the root query object.
func (s *Schema) Query() *Object {
	return s.Object("Query")
}

// Mutation returns the root mutation object.
func (s *Schema) Mutation() *Object {
	return s.Object("Mutation")
}

// Object returns the object called name, registering it on first use. At
// most one description may be given.
func (s *Schema) Object(name string, description ...string) *Object {
	if len(description) > 1 {
		panic("at most one description allowed for Object")
	}
	if o, ok := s.objects[name]; ok {
		if len(description) == 1 && o.Description == "" {
			o.Description = description[0]
		}
		return o
	}

	o := &Object{Name: name}
	if len(description) == 1 {
		o.Description = description[0]
	}
	s.objects[name] = o
	s.order = append(s.order, name)
	return o
}

// Enum registers an enum whose GraphQL values map to the given Go values.
// Arguments of this enum reach resolvers as the mapped Go value.
func (s *Schema) Enum(name string, values map[string]interface{}, description ...string) *graphql.Enum {
	if len(description) > 1 {
		panic("at most one description allowed for Enum")
	}
	if _, ok := s.enums[name]; ok {
		panic(fmt.Sprintf("duplicate enum %s", name))
	}

	cfg := graphql.EnumConfig{Name: name, Values: graphql.EnumValueConfigMap{}}
	if len(description) == 1 {
		cfg.Description = description[0]
	}
	for k, v := range values {
		cfg.Values[k] = &graphql.EnumValueConfig{Value: v}
	}

	e := graphql.NewEnum(cfg)
	s.enums[name] = e
	return e
}

// EnumType returns the enum registered under name. It panics if there is
// none, so registration order mistakes show up at startup.
func (s *Schema) EnumType(name string) *graphql.Enum {
	e, ok := s.enums[name]
	if !ok {
		panic(fmt.Sprintf("unknown enum %s", name))
	}
	return e
}

// Build validates the registered types and returns the executable schema.
// The Query object must have at least one field; Mutation is optional.
func (s *Schema) Build() (*graphql.Schema, error) {
	query, ok := s.objects["Query"]
	if !ok || query.empty() {
		return nil, errors.New("schemabuilder: Query has no fields")
	}

	cfg := graphql.SchemaConfig{Query: query.Type()}
	if m, ok := s.objects["Mutation"]; ok && !m.empty() {
		cfg.Mutation = m.Type()
	}

	for _, name := range s.order {
		if name == "Query" || name == "Mutation" {
			continue
		}
		cfg.Types = append(cfg.Types, s.objects[name].Type())
	}
	for _, e := range s.enums {
		cfg.Types = append(cfg.Types, e)
	}

	schema, err := graphql.NewSchema(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "building schema")
	}
	return &schema, nil
}

// MustBuild is like Build but panics on error.
func (s *Schema) MustBuild() *graphql.Schema {
	schema, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schema
}
