package models

// FieldType is the local value type of a remote field.
type FieldType string

const (
	FieldString    FieldType = "string"
	FieldNumber    FieldType = "number"
	FieldBoolean   FieldType = "boolean"
	FieldDate      FieldType = "date"
	FieldDateTime  FieldType = "datetime"
	FieldCountry   FieldType = "country"
	FieldState     FieldType = "state"
	FieldReference FieldType = "reference"
)

// FieldSource tells where a field lives on the remote record.
type FieldSource string

const (
	SourceDefault FieldSource = "default"
	SourceCustom  FieldSource = "custom"
	SourceAddress FieldSource = "address"
)

// FieldDescriptor describes one remote field of a kind.
type FieldDescriptor struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Type     FieldType `json:"type"`
	// ReferenceTarget is the record type a reference field points into.
	ReferenceTarget string `json:"referenceTarget,omitempty"`
	// AddressProperty is the address sub-object property for address fields.
	AddressProperty string      `json:"addressProperty,omitempty"`
	Source          FieldSource `json:"source"`
}

// IsDate reports whether the field carries a date or a datetime.
func (f FieldDescriptor) IsDate() bool {
	return f.Type == FieldDate || f.Type == FieldDateTime
}

// FieldSet maps field id to descriptor.
type FieldSet map[string]FieldDescriptor
