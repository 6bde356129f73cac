package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

var ErrInvalidField = errors.New("invalid field definition")

// Cardinality says how many values a field or reference holds.
type Cardinality int

const (
	Single Cardinality = iota
	Vector
	Option
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case Vector:
		return "vector"
	case Option:
		return "option"
	default:
		panic(fmt.Sprintf("models: unknown cardinality %d", int(c)))
	}
}

func ParseCardinality(s string) (Cardinality, error) {
	for _, c := range []Cardinality{Single, Vector, Option} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, shared.Validationf(ErrInvalidField, "cardinality %q: only [single, vector, option] are allowed", s)
}

func (c Cardinality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cardinality) UnmarshalText(text []byte) error {
	parsed, err := ParseCardinality(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// wrap applies the cardinality to a bare type expression.
func (c Cardinality) wrap(t *jen.Statement) *jen.Statement {
	switch c {
	case Single:
		return t
	case Vector:
		return jen.Index().Add(t)
	case Option:
		return jen.Op("*").Add(t)
	default:
		panic(fmt.Sprintf("models: unknown cardinality %d", int(c)))
	}
}

type FieldDefinition struct {
	FieldName   string         `json:"field_name"`
	FieldType   FieldType      `json:"field_type"`
	Widget      string         `json:"widget,omitempty"`
	Cardinality Cardinality    `json:"cardinality"`
	LinkedFrom  *Referenceable `json:"linked_from,omitempty"`
}

// NewFieldDefinition validates the field name before building the field.
func NewFieldDefinition(name string, fieldType FieldType, widget string, cardinality Cardinality, linkedFrom *Referenceable) (FieldDefinition, error) {
	if err := naming.CheckCase(name, "field name", naming.Snake); err != nil {
		return FieldDefinition{}, err
	}
	if err := naming.CheckReservedWords(name); err != nil {
		return FieldDefinition{}, err
	}
	if fieldType.IsEnum() && fieldType.Label == "" {
		return FieldDefinition{}, shared.Validationf(ErrInvalidField, "field %s: enum type needs a label and variants", name)
	}
	return FieldDefinition{
		FieldName:   name,
		FieldType:   fieldType,
		Widget:      widget,
		Cardinality: cardinality,
		LinkedFrom:  linkedFrom,
	}, nil
}

// TypeExpr is the stored representation: the field type wrapped by the
// cardinality.
func (fd FieldDefinition) TypeExpr() *jen.Statement {
	return fd.Cardinality.wrap(fd.FieldType.TypeExpr())
}

func (fd FieldDefinition) GoType() string {
	return fmt.Sprintf("%#v", fd.TypeExpr())
}

func (fd FieldDefinition) GoFieldName() string {
	return naming.ToPascal(fd.FieldName)
}

func (fd FieldDefinition) CamelCaseName() string {
	return naming.ToCamel(fd.FieldName)
}

// ParseFieldDefinition reads the command-line form
//
//	name:Type[:widget[:linked_from]]
//
// Type is a display type from FieldTypes, optionally wrapped as Vec<T> or
// Option<T>; an enum is written Enum(Label=variant_a|variant_b). linked_from
// is a referenceable literal and may itself contain colons.
func ParseFieldDefinition(s string) (FieldDefinition, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 2 {
		return FieldDefinition{}, shared.Validationf(ErrInvalidField, "%q: expected name:Type", s)
	}

	fieldType, cardinality, err := parseTypeToken(parts[1])
	if err != nil {
		return FieldDefinition{}, err
	}

	var widget string
	if len(parts) > 2 {
		widget = parts[2]
	}

	var linkedFrom *Referenceable
	if len(parts) > 3 && parts[3] != "" {
		r, err := ParseReferenceable(parts[3])
		if err != nil {
			return FieldDefinition{}, err
		}
		linkedFrom = &r
	}

	return NewFieldDefinition(parts[0], fieldType, widget, cardinality, linkedFrom)
}

func parseTypeToken(token string) (FieldType, Cardinality, error) {
	cardinality := Single
	switch {
	case strings.HasPrefix(token, "Vec<") && strings.HasSuffix(token, ">"):
		cardinality = Vector
		token = strings.TrimSuffix(strings.TrimPrefix(token, "Vec<"), ">")
	case strings.HasPrefix(token, "Option<") && strings.HasSuffix(token, ">"):
		cardinality = Option
		token = strings.TrimSuffix(strings.TrimPrefix(token, "Option<"), ">")
	}

	if strings.HasPrefix(token, "Enum(") && strings.HasSuffix(token, ")") {
		body := strings.TrimSuffix(strings.TrimPrefix(token, "Enum("), ")")
		label, rest, ok := strings.Cut(body, "=")
		if !ok {
			return FieldType{}, 0, shared.Validationf(ErrInvalidEnum, "%q: expected Enum(Label=a|b)", token)
		}
		ft, err := NewEnumType(label, strings.Split(rest, "|"))
		return ft, cardinality, err
	}

	ft, err := ParseFieldType(token)
	return ft, cardinality, err
}
