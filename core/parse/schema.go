package parse

import (
	"fmt"
	"strings"
)

// Kind is the expected kind of a required field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindRecords
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindRecords:
		return "array-of-record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "string", "number" and "array-of-record" (or "records") to a
// Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str":
		return KindString, nil
	case "number", "num":
		return KindNumber, nil
	case "array-of-record", "records":
		return KindRecords, nil
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

// Field is one required field of a Schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of fields a caller requires in a recovered
// record. The zero Schema requires nothing.
type Schema []Field

// Strings is shorthand for a schema of required string fields.
func Strings(names ...string) Schema {
	schema := make(Schema, len(names))
	for i, name := range names {
		schema[i] = Field{Name: name, Kind: KindString}
	}
	return schema
}

// Validate checks rec against the schema, field by field in schema order.
// A field that is absent, or a string field that is empty, yields a
// MissingRequiredField *RecoveryError naming it. A field that is present with
// a value of the wrong kind yields InvalidFieldKind.
func (s Schema) Validate(rec Record) error {
	for _, field := range s {
		if !rec.Has(field.Name) || rec[field.Name] == nil {
			return fieldError(MissingRequiredField, field.Name)
		}

		switch field.Kind {
		case KindString:
			v, ok := rec.String(field.Name)
			if !ok {
				return fieldError(InvalidFieldKind, field.Name)
			}
			if v == "" {
				return fieldError(MissingRequiredField, field.Name)
			}
		case KindNumber:
			if _, ok := rec.Number(field.Name); !ok {
				return fieldError(InvalidFieldKind, field.Name)
			}
		case KindRecords:
			if _, ok := rec.Records(field.Name); !ok {
				return fieldError(InvalidFieldKind, field.Name)
			}
		}
	}
	return nil
}

func fieldError(kind ErrorKind, name string) *RecoveryError {
	return &RecoveryError{Kind: kind, Field: name}
}
