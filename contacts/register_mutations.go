package contacts

import (
	"crypto/subtle"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"go.appointy.com/phonebook/auth"
	"go.appointy.com/phonebook/gqlerr"
	"go.appointy.com/phonebook/schemabuilder"
	"go.appointy.com/phonebook/store"
)

// RegisterMutation registers the write fields.
func RegisterMutation(sb *schemabuilder.Schema, s *Server) {
	m := sb.Mutation()
	person := sb.Object(typePerson).Type()
	user := sb.Object(typeUser).Type()

	m.FieldFunc("addPerson", person, s.addPerson,
		schemabuilder.Arg("name", nonNullString),
		schemabuilder.Arg("phone", graphql.String),
		schemabuilder.Arg("street", nonNullString),
		schemabuilder.Arg("city", nonNullString),
		schemabuilder.FieldDesc("Adds a person and makes it a friend of the current user."),
	)

	m.FieldFunc("editNumber", person, s.editNumber,
		schemabuilder.Arg("name", nonNullString),
		schemabuilder.Arg("phone", nonNullString),
		schemabuilder.FieldDesc("Sets the phone number of a person, null when no person has this name."),
	)

	m.FieldFunc("createUser", user, s.createUser,
		schemabuilder.Arg("username", nonNullString),
	)

	m.FieldFunc("login", sb.Object(typeToken).Type(), s.login,
		schemabuilder.Arg("username", nonNullString),
		schemabuilder.Arg("password", nonNullString),
		schemabuilder.FieldDesc("Issues a bearer token."),
	)

	m.FieldFunc("addAsFriend", user, s.addAsFriend,
		schemabuilder.Arg("name", nonNullString),
		schemabuilder.FieldDesc("Adds an existing person to the current user's friends."),
	)
}

// addPerson writes the person, then the user. The two writes are separate:
// if the second one fails the person stays in the store without a friend.
func (s *Server) addPerson(p graphql.ResolveParams) (interface{}, error) {
	sess, err := auth.RequireUser(p.Context)
	if err != nil {
		return nil, err
	}

	person := &store.Person{
		Name:   p.Args["name"].(string),
		Street: p.Args["street"].(string),
		City:   p.Args["city"].(string),
	}
	if phone, ok := p.Args["phone"].(string); ok {
		if err := store.CheckPhone(phone); err != nil {
			return nil, writeError("addPerson", err, p.Args)
		}
		person.Phone = phone
	}

	if err := s.store.CreatePerson(p.Context, person); err != nil {
		return nil, writeError("addPerson", err, p.Args)
	}

	u := sess.User().WithFriend(person)
	if err := s.store.SaveUser(p.Context, u); err != nil {
		return nil, writeError("addPerson", err, p.Args)
	}
	sess.Refresh(u)

	return person, nil
}

func (s *Server) editNumber(p graphql.ResolveParams) (interface{}, error) {
	person, err := s.store.UpdatePhone(p.Context, p.Args["name"].(string), p.Args["phone"].(string))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, writeError("editNumber", err, p.Args)
	}
	return person, nil
}

func (s *Server) createUser(p graphql.ResolveParams) (interface{}, error) {
	u := &store.User{Username: p.Args["username"].(string)}
	if err := s.store.CreateUser(p.Context, u); err != nil {
		return nil, writeError("createUser", err, p.Args)
	}
	return u, nil
}

// login answers every failed check with the same error.
func (s *Server) login(p graphql.ResolveParams) (interface{}, error) {
	u, err := s.store.FindUser(p.Context, p.Args["username"].(string))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, internal("login", err)
	}

	password := p.Args["password"].(string)
	if u == nil || subtle.ConstantTimeCompare([]byte(password), []byte(sharedPassword)) != 1 {
		return nil, gqlerr.InvalidCredentials()
	}

	value, err := s.codec.Issue(auth.Claims{Username: u.Username, ID: u.ID})
	if err != nil {
		return nil, internal("login", err)
	}
	return &Token{Value: value}, nil
}

// addAsFriend is a no-op returning the current user when the person does
// not exist or is already a friend.
func (s *Server) addAsFriend(p graphql.ResolveParams) (interface{}, error) {
	sess, err := auth.RequireUser(p.Context)
	if err != nil {
		return nil, err
	}
	current := sess.User()

	person, err := s.store.FindPerson(p.Context, p.Args["name"].(string))
	if errors.Is(err, store.ErrNotFound) {
		return current, nil
	}
	if err != nil {
		return nil, internal("addAsFriend", err)
	}
	if current.HasFriend(person.ID) {
		return current, nil
	}

	u := current.WithFriend(person)
	if err := s.store.SaveUser(p.Context, u); err != nil {
		return nil, writeError("addAsFriend", err, p.Args)
	}
	sess.Refresh(u)

	return u, nil
}

// writeError turns a rejected write into a validation error echoing the
// client's arguments. Anything else is logged and masked.
func writeError(field string, err error, args map[string]interface{}) error {
	if store.IsValidation(err) {
		return gqlerr.Validation(err.Error(), args)
	}
	return internal(field, err)
}

func internal(field string, err error) error {
	glog.Errorf("Resolving %s: %v", field, err)
	return gqlerr.InternalError()
}
