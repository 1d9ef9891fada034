package schemabuilder_test

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/require"
	"go.appointy.com/phonebook/schemabuilder"
)

type pet struct {
	Name  string
	Owner *owner
}

type owner struct {
	Name string
	Pets []*pet
}

func TestBuild(t *testing.T) {
	sb := schemabuilder.NewSchema()

	// Owner and Pet reference each other before either has fields.
	ownerObj := sb.Object("Owner")
	petObj := sb.Object("Pet", "A pet.")
	petObj.FieldFunc("name", graphql.NewNonNull(graphql.String), nil)
	petObj.FieldFunc("owner", ownerObj.Type(), nil)
	ownerObj.FieldFunc("name", graphql.String, nil)
	ownerObj.FieldFunc("pets", graphql.NewList(petObj.Type()), nil)

	kind := sb.Enum("Kind", map[string]interface{}{"CAT": 1, "DOG": 2}, "Kind of pet.")

	bob := &owner{Name: "Bob"}
	bob.Pets = []*pet{{Name: "Tom", Owner: bob}}

	sb.Query().FieldFunc("owner", ownerObj.Type(), func(graphql.ResolveParams) (interface{}, error) {
		return bob, nil
	})
	sb.Query().FieldFunc("kind", graphql.Int, func(p graphql.ResolveParams) (interface{}, error) {
		return p.Args["kind"], nil
	}, schemabuilder.Arg("kind", graphql.NewNonNull(kind)), schemabuilder.FieldDesc("Echoes the kind."))

	schema, err := sb.Build()
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{
		Schema:        *schema,
		RequestString: `{ owner { name pets { name owner { name } } } kind(kind: DOG) }`,
		Context:       context.Background(),
	})
	require.Empty(t, res.Errors)
	require.Equal(t, map[string]interface{}{
		"owner": map[string]interface{}{
			"name": "Bob",
			"pets": []interface{}{
				map[string]interface{}{"name": "Tom", "owner": map[string]interface{}{"name": "Bob"}},
			},
		},
		"kind": 2,
	}, res.Data)

	require.Equal(t, "A pet.", petObj.Type().Description())
	require.Equal(t, "Echoes the kind.", schema.QueryType().Fields()["kind"].Description)
	require.Nil(t, schema.MutationType())
}

func TestBuildRequiresQuery(t *testing.T) {
	_, err := schemabuilder.NewSchema().Build()
	require.Error(t, err)
}

func TestDuplicateFieldPanics(t *testing.T) {
	sb := schemabuilder.NewSchema()
	q := sb.Query()
	q.FieldFunc("a", graphql.String, nil)
	require.Panics(t, func() { q.FieldFunc("a", graphql.String, nil) })
	require.Panics(t, func() {
		q.FieldFunc("b", graphql.String, nil, schemabuilder.Arg("x", graphql.Int), schemabuilder.Arg("x", graphql.Int))
	})
}

func TestObjectIsShared(t *testing.T) {
	sb := schemabuilder.NewSchema()
	require.Same(t, sb.Object("Pet"), sb.Object("Pet"))
	require.Same(t, sb.Query(), sb.Object("Query"))
}

func TestEnumType(t *testing.T) {
	sb := schemabuilder.NewSchema()
	e := sb.Enum("Kind", map[string]interface{}{"CAT": 1})
	require.Same(t, e, sb.EnumType("Kind"))
	require.Panics(t, func() { sb.EnumType("Missing") })
	require.Panics(t, func() { sb.Enum("Kind", map[string]interface{}{"DOG": 2}) })
}
