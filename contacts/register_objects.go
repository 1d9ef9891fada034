package contacts

import (
	"github.com/graphql-go/graphql"
	"go.appointy.com/phonebook/schemabuilder"
	"go.appointy.com/phonebook/store"
)

var nonNullString = graphql.NewNonNull(graphql.String)

// RegisterObjects registers the output objects. Plain fields use the
// engine's default resolver, which reads the struct field of the same name.
func RegisterObjects(sb *schemabuilder.Schema) {
	address := sb.Object(typeAddress)
	address.FieldFunc("street", nonNullString, nil)
	address.FieldFunc("city", nonNullString, nil)

	person := sb.Object(typePerson, "An entry of the phone book.")
	person.FieldFunc("name", nonNullString, nil)
	person.FieldFunc("phone", graphql.String, func(p graphql.ResolveParams) (interface{}, error) {
		if pr := p.Source.(*store.Person); pr.HasPhone() {
			return pr.Phone, nil
		}
		return nil, nil
	})
	person.FieldFunc("address", graphql.NewNonNull(address.Type()), func(p graphql.ResolveParams) (interface{}, error) {
		pr := p.Source.(*store.Person)
		return &Address{Street: pr.Street, City: pr.City}, nil
	}, schemabuilder.FieldDesc("Built from the stored street and city."))
	person.FieldFunc("id", graphql.NewNonNull(graphql.ID), nil)

	user := sb.Object(typeUser, "A registered account and its friends.")
	user.FieldFunc("username", nonNullString, nil)
	user.FieldFunc("friends", graphql.NewNonNull(graphql.NewList(person.Type())), func(p graphql.ResolveParams) (interface{}, error) {
		u := p.Source.(*store.User)
		if u.Friends == nil {
			return []*store.Person{}, nil
		}
		return u.Friends, nil
	})
	user.FieldFunc("id", graphql.NewNonNull(graphql.ID), nil)

	token := sb.Object(typeToken)
	token.FieldFunc("value", nonNullString, nil)
}
