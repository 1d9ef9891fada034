package store

import (
	"fmt"
	"unicode/utf16"
)

const (
	minNameLength  = 5
	minPhoneLength = 5
)

type validator struct {
	model  string
	fields []FieldError
}

func (v *validator) required(path, value string) bool {
	if value == "" {
		v.fields = append(v.fields, FieldError{Path: path, Message: fmt.Sprintf("Path `%s` is required.", path)})
		return false
	}
	return true
}

// length counts UTF-16 code units, so characters outside the BMP count twice.
func length(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func (v *validator) minLength(path, value string, n int) {
	if length(value) < n {
		v.fields = append(v.fields, FieldError{
			Path:    path,
			Message: fmt.Sprintf("Path `%s` (`%s`) is shorter than the minimum allowed length (%d).", path, value, n),
		})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Model: v.model, Fields: v.fields}
}

func (p *Person) validate() error {
	v := &validator{model: "Person"}
	if v.required("name", p.Name) {
		v.minLength("name", p.Name, minNameLength)
	}
	if p.Phone != "" {
		v.minLength("phone", p.Phone, minPhoneLength)
	}
	v.required("street", p.Street)
	v.required("city", p.City)
	return v.err()
}

// CheckPhone validates a phone number the client supplied explicitly. Unlike
// a person without a phone, an empty number is rejected.
func CheckPhone(phone string) error {
	v := &validator{model: "Person"}
	v.minLength("phone", phone, minPhoneLength)
	return v.err()
}

func (u *User) validate() error {
	v := &validator{model: "User"}
	v.required("username", u.Username)
	return v.err()
}
