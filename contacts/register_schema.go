package contacts

import "go.appointy.com/phonebook/schemabuilder"

// RegisterSchema registers every type and field of the phone book. Enums and
// objects go first since the root fields look them up.
func RegisterSchema(sb *schemabuilder.Schema, s *Server) {
	RegisterEnums(sb)
	RegisterObjects(sb)

	RegisterQuery(sb, s)
	RegisterMutation(sb, s)
}
