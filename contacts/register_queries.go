package contacts

import (
	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"go.appointy.com/phonebook/auth"
	"go.appointy.com/phonebook/schemabuilder"
	"go.appointy.com/phonebook/store"
)

// RegisterQuery registers the read only fields. None of them require a
// current user.
func RegisterQuery(sb *schemabuilder.Schema, s *Server) {
	q := sb.Query()
	person := sb.Object(typePerson).Type()

	q.FieldFunc("personCount", graphql.NewNonNull(graphql.Int), func(p graphql.ResolveParams) (interface{}, error) {
		n, err := s.store.CountPersons(p.Context)
		if err != nil {
			return nil, internal("personCount", err)
		}
		return n, nil
	}, schemabuilder.FieldDesc("Number of persons in the phone book."))

	q.FieldFunc("allPersons", graphql.NewNonNull(graphql.NewList(person)), func(p graphql.ResolveParams) (interface{}, error) {
		filter := store.AnyPhone
		if f, ok := p.Args["phone"].(store.PhoneFilter); ok {
			filter = f
		}
		persons, err := s.store.Persons(p.Context, filter)
		if err != nil {
			return nil, internal("allPersons", err)
		}
		return persons, nil
	},
		schemabuilder.Arg("phone", sb.EnumType(typeYesNo), "Only persons with (YES) or without (NO) a phone number."),
		schemabuilder.FieldDesc("Lists persons in store order."),
	)

	q.FieldFunc("findPerson", person, func(p graphql.ResolveParams) (interface{}, error) {
		pr, err := s.store.FindPerson(p.Context, p.Args["name"].(string))
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, internal("findPerson", err)
		}
		return pr, nil
	}, schemabuilder.Arg("name", nonNullString), schemabuilder.FieldDesc("Exact match on name, null when absent."))

	q.FieldFunc("me", sb.Object(typeUser).Type(), func(p graphql.ResolveParams) (interface{}, error) {
		if u := auth.CurrentUser(p.Context); u != nil {
			return u, nil
		}
		return nil, nil
	}, schemabuilder.FieldDesc("The user the bearer token belongs to, null for anonymous requests."))
}
