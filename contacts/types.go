package contacts

// Address is the read side view of a person's street and city. It is never
// stored as a document of its own.
type Address struct {
	Street string
	City   string
}

// Token carries a signed credential returned by login.
type Token struct {
	Value string
}

// sharedPassword is the one password login accepts for every user.
// NOT SAFE FOR PRODUCTION: there are no per-user credentials. Kept as is
// because clients depend on it.
const sharedPassword = "secret"

// Type names used across registrations.
const (
	typeYesNo   = "YesNo"
	typeAddress = "Address"
	typePerson  = "Person"
	typeUser    = "User"
	typeToken   = "Token"
)
