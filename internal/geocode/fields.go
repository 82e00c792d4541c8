package geocode

import "strings"

// Field is one of the structured search dimensions Nominatim accepts.
type Field string

const (
	FieldCountry    Field = "country"
	FieldState      Field = "state"
	FieldCounty     Field = "county"
	FieldCity       Field = "city"
	FieldStreet     Field = "street"
	FieldPostalCode Field = "postal_code"
)

// Fields returns every structured search field in its fixed order.
func Fields() []Field {
	return []Field{
		FieldCountry,
		FieldState,
		FieldCounty,
		FieldCity,
		FieldStreet,
		FieldPostalCode,
	}
}

// ParseField reports whether the token names a known field.
func ParseField(token string) (Field, bool) {
	for _, f := range Fields() {
		if string(f) == token {
			return f, true
		}
	}
	return "", false
}

// Param returns the Nominatim query parameter for the field.
func (f Field) Param() string {
	if f == FieldPostalCode {
		return "postalcode"
	}
	return string(f)
}

// Human returns the field name as shown to users in prompts.
func (f Field) Human() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// Detail pairs a field with the value the user supplied for it.
type Detail struct {
	Field Field
	Value string
}
