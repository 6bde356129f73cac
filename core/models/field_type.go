package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

var (
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrInvalidEnum      = errors.New("invalid enum")
)

// FieldKind enumerates the closed set of field types.
type FieldKind int

const (
	KindBool FieldKind = iota
	KindString
	KindU32
	KindI32
	KindF32
	KindTimestamp
	KindAgentPubKey
	KindActionHash
	KindEntryHash
	KindDnaHash
	KindEnum
)

// FieldType is a field's value type. Label and Variants are only set for
// KindEnum.
type FieldType struct {
	Kind     FieldKind
	Label    string
	Variants []string
}

var (
	Bool        = FieldType{Kind: KindBool}
	String      = FieldType{Kind: KindString}
	U32         = FieldType{Kind: KindU32}
	I32         = FieldType{Kind: KindI32}
	F32         = FieldType{Kind: KindF32}
	Timestamp   = FieldType{Kind: KindTimestamp}
	AgentPubKey = FieldType{Kind: KindAgentPubKey}
	ActionHash  = FieldType{Kind: KindActionHash}
	EntryHash   = FieldType{Kind: KindEntryHash}
	DnaHash     = FieldType{Kind: KindDnaHash}
)

// NewEnumType builds an enumeration type. The label is normalized to
// PascalCase and must then be a valid identifier; variants must be non-empty.
func NewEnumType(label string, variants []string) (FieldType, error) {
	normalized := naming.ToPascal(label)
	if !token.IsIdentifier(normalized) {
		return FieldType{}, shared.Validationf(ErrInvalidEnum, "label %q is not a valid type identifier", label)
	}
	if len(variants) == 0 {
		return FieldType{}, shared.Validationf(ErrInvalidEnum, "enum %s must have at least one variant", normalized)
	}
	vs := make([]string, len(variants))
	for i, v := range variants {
		if strings.TrimSpace(v) == "" {
			return FieldType{}, shared.Validationf(ErrInvalidEnum, "enum %s has an empty variant", normalized)
		}
		vs[i] = v
	}
	return FieldType{Kind: KindEnum, Label: normalized, Variants: vs}, nil
}

// FieldTypes lists every user-selectable type. The trailing enum entry is a
// selector with no label or variants.
func FieldTypes() []FieldType {
	return []FieldType{
		String,
		Bool,
		U32,
		I32,
		F32,
		Timestamp,
		ActionHash,
		EntryHash,
		DnaHash,
		AgentPubKey,
		{Kind: KindEnum},
	}
}

// ParseFieldType matches s against the display form of FieldTypes.
func ParseFieldType(s string) (FieldType, error) {
	list := FieldTypes()
	for _, ft := range list {
		if ft.String() == s {
			return ft, nil
		}
	}
	accepted := make([]string, len(list))
	for i, ft := range list {
		accepted[i] = ft.String()
	}
	return FieldType{}, shared.Validationf(ErrInvalidFieldType, "%q: only [%s] are allowed", s, strings.Join(accepted, ", "))
}

func (ft FieldType) String() string {
	switch ft.Kind {
	case KindBool:
		return "bool"
	case KindString:
		return "String"
	case KindU32:
		return "u32"
	case KindI32:
		return "i32"
	case KindF32:
		return "f32"
	case KindTimestamp:
		return "Timestamp"
	case KindAgentPubKey:
		return "AgentPubKey"
	case KindActionHash:
		return "ActionHash"
	case KindEntryHash:
		return "EntryHash"
	case KindDnaHash:
		return "DnaHash"
	case KindEnum:
		return "Enum"
	default:
		panic(fmt.Sprintf("models: unknown field kind %d", int(ft.Kind)))
	}
}

func (ft FieldType) IsEnum() bool {
	return ft.Kind == KindEnum
}

// Equal compares kinds, and for enums the label and variants.
func (ft FieldType) Equal(other FieldType) bool {
	if ft.Kind != other.Kind || ft.Label != other.Label || len(ft.Variants) != len(other.Variants) {
		return false
	}
	for i := range ft.Variants {
		if ft.Variants[i] != other.Variants[i] {
			return false
		}
	}
	return true
}

// TypeExpr returns the Go type expression for a value of this type.
func (ft FieldType) TypeExpr() *jen.Statement {
	switch ft.Kind {
	case KindBool:
		return jen.Bool()
	case KindString:
		return jen.String()
	case KindU32:
		return jen.Uint32()
	case KindI32:
		return jen.Int32()
	case KindF32:
		return jen.Float32()
	case KindTimestamp, KindAgentPubKey, KindActionHash, KindEntryHash, KindDnaHash:
		return jen.Id(ft.String())
	case KindEnum:
		return jen.Id(ft.Label)
	default:
		panic(fmt.Sprintf("models: unknown field kind %d", int(ft.Kind)))
	}
}

// GoType renders TypeExpr as source text.
func (ft FieldType) GoType() string {
	return fmt.Sprintf("%#v", ft.TypeExpr())
}

// TypeDefinition returns the standalone declaration this type needs, or nil
// when it maps onto an existing type. An enum becomes a tagged union: a struct
// carrying the variant name under "type", plus one value per variant.
func (ft FieldType) TypeDefinition() (*jen.Statement, error) {
	switch ft.Kind {
	case KindBool, KindString, KindU32, KindI32, KindF32,
		KindTimestamp, KindAgentPubKey, KindActionHash, KindEntryHash, KindDnaHash:
		return nil, nil
	case KindEnum:
		return enumDefinition(ft.Label, ft.Variants)
	default:
		panic(fmt.Sprintf("models: unknown field kind %d", int(ft.Kind)))
	}
}

// GoTypeDefinition renders TypeDefinition as gofmt-formatted source, or ""
// when there is nothing to define.
func (ft FieldType) GoTypeDefinition() (string, error) {
	def, err := ft.TypeDefinition()
	if err != nil || def == nil {
		return "", err
	}
	return renderCode(def)
}

func enumDefinition(label string, variants []string) (*jen.Statement, error) {
	if !token.IsIdentifier(label) {
		return nil, shared.Validationf(ErrInvalidEnum, "label %q is not a valid type identifier", label)
	}
	if len(variants) == 0 {
		return nil, shared.Validationf(ErrInvalidEnum, "enum %s has no variants", label)
	}

	names := make([]string, len(variants))
	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		name := naming.ToPascal(v)
		if !token.IsIdentifier(name) {
			return nil, shared.Validationf(ErrInvalidEnum, "variant %q of %s does not normalize to an identifier", v, label)
		}
		if seen[name] {
			return nil, shared.Validationf(ErrInvalidEnum, "variant %s of %s is declared twice", name, label)
		}
		seen[name] = true
		names[i] = name
	}

	def := jen.Type().Id(label).Struct(
		jen.Id("Type").String().Tag(map[string]string{"json": "type"}),
	).Line().Line().Var().DefsFunc(func(g *jen.Group) {
		for _, name := range names {
			g.Id(label + name).Op("=").Id(label).Values(jen.Dict{
				jen.Id("Type"): jen.Lit(name),
			})
		}
	})
	return def, nil
}

func renderCode(code jen.Code) (string, error) {
	var buf bytes.Buffer
	if err := jen.Add(code).Render(&buf); err != nil {
		return "", shared.ValidationError(fmt.Errorf("render generated code: %w", err))
	}
	return buf.String(), nil
}

// Widgets lists the display widgets a UI template may choose for this type.
func (ft FieldType) Widgets() []string {
	switch ft.Kind {
	case KindBool:
		return []string{"Checkbox"}
	case KindString:
		return []string{"TextField", "TextArea"}
	case KindU32, KindI32, KindF32:
		return []string{"Slider", "NumberField"}
	case KindTimestamp:
		return []string{"DateTimePicker"}
	case KindAgentPubKey, KindActionHash, KindEntryHash, KindDnaHash:
		return nil
	case KindEnum:
		return []string{"Select", "RadioGroup"}
	default:
		panic(fmt.Sprintf("models: unknown field kind %d", int(ft.Kind)))
	}
}

func (ft FieldType) MarshalJSON() ([]byte, error) {
	out := struct {
		Type     string   `json:"type"`
		Label    string   `json:"label,omitempty"`
		Variants []string `json:"variants,omitempty"`
	}{
		Type:     ft.String(),
		Label:    ft.Label,
		Variants: ft.Variants,
	}
	return json.Marshal(out)
}
