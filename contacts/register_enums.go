package contacts

import (
	"go.appointy.com/phonebook/schemabuilder"
	"go.appointy.com/phonebook/store"
)

// RegisterEnums registers YesNo. Resolvers receive the matching
// store.PhoneFilter.
func RegisterEnums(sb *schemabuilder.Schema) {
	sb.Enum(typeYesNo, map[string]interface{}{
		"YES": store.WithPhone,
		"NO":  store.WithoutPhone,
	}, "Whether a person has a phone number.")
}
