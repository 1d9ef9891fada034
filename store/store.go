// Package store keeps persons and users in two document collections. The
// collections are opened through gocloud.dev/docstore so the same code runs
// against MongoDB in production and against memdocstore in tests.
//
// Uniqueness is enforced by the collections themselves: persons are keyed by
// name and users by username, so a duplicate Create fails inside the driver.
package store

import (
	"context"
	"encoding/gob"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/docstore"
	"gocloud.dev/docstore/memdocstore"
	"gocloud.dev/docstore/mongodocstore"
	"gocloud.dev/gcerrors"
)

const (
	personKey = "name"
	userKey   = "username"

	defaultDatabase = "phonebook"
)

// memdocstore keeps list fields as []interface{} and writes file backed
// collections with gob.
func init() {
	gob.Register([]interface{}{})
}

// Person is an entry of the directory.
type Person struct {
	ID     string `docstore:"id"`
	Name   string `docstore:"name"`
	Phone  string `docstore:"phone"`
	Street string `docstore:"street"`
	City   string `docstore:"city"`
}

// HasPhone reports whether a phone number is stored for p.
func (p *Person) HasPhone() bool {
	return p.Phone != ""
}

// User is a registered account. FriendIDs are references to persons; Friends
// is filled by Populate and never written back.
type User struct {
	ID        string    `docstore:"id"`
	Username  string    `docstore:"username"`
	FriendIDs []string  `docstore:"friends"`
	Friends   []*Person `docstore:"-"`
}

// HasFriend reports whether the person id is already referenced by u.
func (u *User) HasFriend(personID string) bool {
	for _, id := range u.FriendIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// WithFriend returns a copy of u with p appended to its friends. u is left
// untouched.
func (u *User) WithFriend(p *Person) *User {
	out := &User{
		ID:        u.ID,
		Username:  u.Username,
		FriendIDs: make([]string, 0, len(u.FriendIDs)+1),
		Friends:   make([]*Person, 0, len(u.Friends)+1),
	}
	out.FriendIDs = append(append(out.FriendIDs, u.FriendIDs...), p.ID)
	out.Friends = append(append(out.Friends, u.Friends...), p)
	return out
}

// PhoneFilter restricts Persons by whether a phone number is stored.
type PhoneFilter int

const (
	AnyPhone PhoneFilter = iota
	WithPhone
	WithoutPhone
)

// Store is safe for concurrent use. It is opened once per process.
type Store struct {
	persons *docstore.Collection
	users   *docstore.Collection

	closeFn func(ctx context.Context) error
}

// Open connects to the store named by dsn:
//
//	mem://                        in-memory collections
//	file:///var/lib/phonebook     in-memory collections saved to the directory on Close
//	mongodb://host:27017/db       MongoDB (also mongodb+srv://), database defaults to "phonebook"
func Open(ctx context.Context, dsn string) (*Store, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing store url %q", dsn)
	}

	switch u.Scheme {
	case "mem":
		return openMem("", "")
	case "file":
		dir := u.Path
		if dir == "" {
			dir = u.Opaque
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating store directory %s", dir)
		}
		return openMem(filepath.Join(dir, "persons.db"), filepath.Join(dir, "users.db"))
	case "mongodb", "mongodb+srv":
		return openMongo(ctx, dsn, u)
	default:
		return nil, errors.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

func openMem(personsFile, usersFile string) (*Store, error) {
	persons, err := memdocstore.OpenCollection(personKey, &memdocstore.Options{Filename: personsFile})
	if err != nil {
		return nil, errors.Wrap(err, "opening persons collection")
	}
	users, err := memdocstore.OpenCollection(userKey, &memdocstore.Options{Filename: usersFile})
	if err != nil {
		_ = persons.Close()
		return nil, errors.Wrap(err, "opening users collection")
	}
	return &Store{persons: persons, users: users}, nil
}

func openMongo(ctx context.Context, dsn string, u *url.URL) (*Store, error) {
	client, err := mongodocstore.Dial(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		db = defaultDatabase
	}

	persons, err := mongodocstore.OpenCollection(client.Database(db).Collection("persons"), personKey, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "opening persons collection")
	}
	users, err := mongodocstore.OpenCollection(client.Database(db).Collection("users"), userKey, nil)
	if err != nil {
		_ = persons.Close()
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "opening users collection")
	}
	glog.Infof("Connected to MongoDB database %s", db)

	return &Store{
		persons: persons,
		users:   users,
		closeFn: func(ctx context.Context) error { return client.Disconnect(ctx) },
	}, nil
}

// Close releases the collections. File backed stores are written out here.
func (s *Store) Close(ctx context.Context) error {
	var first error
	for _, c := range []*docstore.Collection{s.persons, s.users} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.closeFn != nil {
		if err := s.closeFn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return errors.Wrap(first, "closing store")
}

// CreatePerson validates p, assigns it an id and inserts it.
func (s *Store) CreatePerson(ctx context.Context, p *Person) error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.persons.Create(ctx, p); err != nil {
		if gcerrors.Code(err) == gcerrors.AlreadyExists {
			return uniqueViolation("Person", personKey, p.Name)
		}
		return errors.Wrapf(err, "creating person %q", p.Name)
	}
	return nil
}

// FindPerson returns the person with exactly this name, or ErrNotFound.
func (s *Store) FindPerson(ctx context.Context, name string) (*Person, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	p := &Person{Name: name}
	if err := s.persons.Get(ctx, p); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting person %q", name)
	}
	return p, nil
}

// UpdatePhone sets the phone of the named person. Unlike CreatePerson the
// phone is always checked, an empty number included.
func (s *Store) UpdatePhone(ctx context.Context, name, phone string) (*Person, error) {
	p, err := s.FindPerson(ctx, name)
	if err != nil {
		return nil, err
	}
	p.Phone = phone

	if err := CheckPhone(phone); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	if err := s.persons.Replace(ctx, p); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "saving person %q", name)
	}
	return p, nil
}

// Persons lists persons in the order the store yields them.
func (s *Store) Persons(ctx context.Context, filter PhoneFilter) ([]*Person, error) {
	q := s.persons.Query()
	switch filter {
	case WithPhone:
		q = q.Where("phone", ">", "")
	case WithoutPhone:
		q = q.Where("phone", "=", "")
	}

	iter := q.Get(ctx)
	defer iter.Stop()

	out := []*Person{}
	for {
		p := &Person{}
		err := iter.Next(ctx, p)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing persons")
		}
		out = append(out, p)
	}
	return out, nil
}

// CountPersons returns the number of stored persons.
func (s *Store) CountPersons(ctx context.Context) (int, error) {
	iter := s.persons.Query().Get(ctx, personKey)
	defer iter.Stop()

	n := 0
	for {
		err := iter.Next(ctx, &Person{})
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, errors.Wrap(err, "counting persons")
		}
		n++
	}
}

func (s *Store) personByID(ctx context.Context, id string) (*Person, error) {
	iter := s.persons.Query().Where("id", "=", id).Limit(1).Get(ctx)
	defer iter.Stop()

	p := &Person{}
	err := iter.Next(ctx, p)
	if err == io.EOF {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting person %s", id)
	}
	return p, nil
}

// CreateUser validates u, assigns it an id and inserts it.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if err := u.validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.FriendIDs == nil {
		u.FriendIDs = []string{}
	}
	if err := s.users.Create(ctx, u); err != nil {
		if gcerrors.Code(err) == gcerrors.AlreadyExists {
			return uniqueViolation("User", userKey, u.Username)
		}
		return errors.Wrapf(err, "creating user %q", u.Username)
	}
	return nil
}

// SaveUser overwrites the stored user. Last write wins.
func (s *Store) SaveUser(ctx context.Context, u *User) error {
	if err := u.validate(); err != nil {
		return err
	}
	if err := s.users.Replace(ctx, u); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ErrNotFound
		}
		return errors.Wrapf(err, "saving user %q", u.Username)
	}
	return nil
}

// FindUser returns the user with this username, friends not populated.
func (s *Store) FindUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	u := &User{Username: username}
	if err := s.users.Get(ctx, u); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting user %q", username)
	}
	return u, nil
}

// UserByID returns the user with this id with its friends populated.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	iter := s.users.Query().Where("id", "=", id).Limit(1).Get(ctx)
	defer iter.Stop()

	u := &User{}
	err := iter.Next(ctx, u)
	if err == io.EOF {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting user %s", id)
	}
	if err := s.Populate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Populate resolves u.FriendIDs into u.Friends, keeping their order.
// References to persons that no longer exist are skipped.
func (s *Store) Populate(ctx context.Context, u *User) error {
	friends := make([]*Person, 0, len(u.FriendIDs))
	for _, id := range u.FriendIDs {
		p, err := s.personByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			glog.V(2).Infof("User %s references missing person %s", u.Username, id)
			continue
		}
		if err != nil {
			return err
		}
		friends = append(friends, p)
	}
	u.Friends = friends
	return nil
}
