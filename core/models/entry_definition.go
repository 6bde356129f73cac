package models

import (
	"errors"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrDuplicateEnum  = errors.New("duplicate enum label")
)

// Session tracks names that must stay unique across one scaffold invocation.
type Session struct {
	enums map[string]FieldType
}

func NewSession() *Session {
	return &Session{enums: make(map[string]FieldType)}
}

// RegisterEnum records an enum label. Registering the same definition twice
// is allowed; a different definition under a taken label is not.
func (s *Session) RegisterEnum(ft FieldType) error {
	if !ft.IsEnum() {
		return nil
	}
	if existing, ok := s.enums[ft.Label]; ok && !existing.Equal(ft) {
		return shared.Validationf(ErrDuplicateEnum, "enum %s is already defined with variants %v", ft.Label, existing.Variants)
	}
	s.enums[ft.Label] = ft
	return nil
}

type EntryDefinition struct {
	Name               string            `json:"name"`
	Fields             []FieldDefinition `json:"fields"`
	ReferenceEntryHash bool              `json:"reference_entry_hash"`
}

// NewEntryDefinition validates name and fields. Enum labels are checked
// against session, which may be nil when the entry stands alone.
func NewEntryDefinition(session *Session, name string, fields []FieldDefinition, referenceEntryHash bool) (EntryDefinition, error) {
	if err := naming.CheckCase(name, "entry type name", naming.Snake); err != nil {
		return EntryDefinition{}, err
	}
	if err := naming.CheckReservedWords(name); err != nil {
		return EntryDefinition{}, err
	}
	if session == nil {
		session = NewSession()
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.FieldName] {
			return EntryDefinition{}, shared.Validationf(ErrDuplicateField, "entry type %s declares field %s twice", name, f.FieldName)
		}
		seen[f.FieldName] = true
		if err := session.RegisterEnum(f.FieldType); err != nil {
			return EntryDefinition{}, err
		}
	}

	return EntryDefinition{
		Name:               name,
		Fields:             fields,
		ReferenceEntryHash: referenceEntryHash,
	}, nil
}

// Referenceable is how other entries point at this one.
func (ed EntryDefinition) Referenceable() Referenceable {
	return EntryTypeReferenceable(EntryTypeReference{
		EntryType:          ed.PascalCaseName(),
		ReferenceEntryHash: ed.ReferenceEntryHash,
	})
}

func (ed EntryDefinition) SnakeCaseName() string  { return naming.ToSnake(ed.Name) }
func (ed EntryDefinition) PascalCaseName() string { return naming.ToPascal(ed.Name) }
func (ed EntryDefinition) CamelCaseName() string  { return naming.ToCamel(ed.Name) }
func (ed EntryDefinition) KebabCaseName() string  { return naming.ToKebab(ed.Name) }

// EnumDefinitions renders each enum used by the fields, once per label, in
// field order.
func (ed EntryDefinition) EnumDefinitions() ([]string, error) {
	var defs []string
	emitted := make(map[string]bool)
	for _, f := range ed.Fields {
		if !f.FieldType.IsEnum() || emitted[f.FieldType.Label] {
			continue
		}
		emitted[f.FieldType.Label] = true
		def, err := f.FieldType.GoTypeDefinition()
		if err != nil {
			return nil, fmt.Errorf("entry type %s: %w", ed.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// TypeDefinition is the Go record type holding this entry's fields.
func (ed EntryDefinition) TypeDefinition() (string, error) {
	def := jen.Type().Id(ed.PascalCaseName()).StructFunc(func(g *jen.Group) {
		for _, f := range ed.Fields {
			g.Id(f.GoFieldName()).Add(f.TypeExpr()).Tag(map[string]string{"json": f.FieldName})
		}
	})
	return renderCode(def)
}

// LinkedFromFields are the fields that exist because of an incoming link.
func (ed EntryDefinition) LinkedFromFields() []FieldDefinition {
	var out []FieldDefinition
	for _, f := range ed.Fields {
		if f.LinkedFrom != nil {
			out = append(out, f)
		}
	}
	return out
}

// Crud selects which write operations are scaffolded beyond create and read.
type Crud struct {
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}
