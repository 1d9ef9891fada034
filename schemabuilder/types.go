package schemabuilder

import (
	"fmt"

	"github.com/graphql-go/graphql"
)

// Object is a named GraphQL object whose fields are registered one by one
// with FieldFunc. The underlying graphql.Object is created on first use and
// reads its fields lazily, so objects may reference each other in any order.
type Object struct {
	Name        string
	Description string

	fields map[string]*graphql.Field
	order  []string
	typ    *graphql.Object
}

// FieldOption configures a field registered with FieldFunc.
type FieldOption func(*graphql.Field)

// FieldDesc sets the description of a field.
func FieldDesc(description string) FieldOption {
	return func(f *graphql.Field) {
		f.Description = description
	}
}

// Arg declares an argument of a field. At most one description may follow
// the type.
func Arg(name string, typ graphql.Input, description ...string) FieldOption {
	if len(description) > 1 {
		panic("at most one description allowed for Arg")
	}
	return func(f *graphql.Field) {
		if f.Args == nil {
			f.Args = graphql.FieldConfigArgument{}
		}
		if _, ok := f.Args[name]; ok {
			panic(fmt.Sprintf("duplicate argument %s on field %s", name, f.Name))
		}
		a := &graphql.ArgumentConfig{Type: typ}
		if len(description) == 1 {
			a.Description = description[0]
		}
		f.Args[name] = a
	}
}

// FieldFunc exposes a field of type typ on the object, resolved by fn. A nil
// fn falls back to the engine's default resolver, which reads the struct
// field or map key of the same name.
//
// For example, a mutation taking a single argument:
//
//	mutation.FieldFunc("addAsFriend", personType, func(p graphql.ResolveParams) (interface{}, error) {
//		return s.addFriend(p.Context, p.Args["name"].(string))
//	}, schemabuilder.Arg("name", graphql.NewNonNull(graphql.String)))
//
// Registering the same name twice panics.
func (o *Object) FieldFunc(name string, typ graphql.Output, fn graphql.FieldResolveFn, opts ...FieldOption) {
	if o.fields == nil {
		o.fields = make(map[string]*graphql.Field)
	}
	if _, ok := o.fields[name]; ok {
		panic("duplicate method")
	}

	f := &graphql.Field{Name: name, Type: typ, Resolve: fn}
	for _, opt := range opts {
		opt(f)
	}

	o.fields[name] = f
	o.order = append(o.order, name)
}

// Type returns the graphql.Object for o. Fields registered after the first
// call are still picked up when the schema is built.
func (o *Object) Type() *graphql.Object {
	if o.typ == nil {
		o.typ = graphql.NewObject(graphql.ObjectConfig{
			Name:        o.Name,
			Description: o.Description,
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				fields := make(graphql.Fields, len(o.order))
				for _, name := range o.order {
					fields[name] = o.fields[name]
				}
				return fields
			}),
		})
	}
	return o.typ
}

func (o *Object) empty() bool {
	return len(o.fields) == 0
}
