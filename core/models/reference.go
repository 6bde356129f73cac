package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

var ErrInvalidReference = errors.New("invalid reference")

// Hash kind literals accepted after the colon in a reference.
const (
	EntryHashLiteral  = "EntryHash"
	ActionHashLiteral = "ActionHash"
)

const defaultAgentRole = "agent"

// EntryTypeReference points at another entry type. ReferenceEntryHash picks
// content addressing (EntryHash) over action addressing (ActionHash).
type EntryTypeReference struct {
	EntryType          string `json:"entry_type"`
	ReferenceEntryHash bool   `json:"reference_entry_hash"`
}

// ParseEntryTypeReference reads name[:EntryHash|ActionHash]. The name must be
// snake_case and is stored in PascalCase.
func ParseEntryTypeReference(s string) (EntryTypeReference, error) {
	segments := strings.Split(s, ":")
	if err := naming.CheckCase(segments[0], "entry type reference", naming.Snake); err != nil {
		return EntryTypeReference{}, err
	}

	referenceEntryHash := false
	if len(segments) > 1 {
		switch segments[1] {
		case EntryHashLiteral:
			referenceEntryHash = true
		case ActionHashLiteral:
			referenceEntryHash = false
		default:
			return EntryTypeReference{}, shared.Validationf(ErrInvalidReference,
				"second segment of %q must be %q or %q", s, EntryHashLiteral, ActionHashLiteral)
		}
	}
	if len(segments) > 2 {
		return EntryTypeReference{}, shared.Validationf(ErrInvalidReference, "%q: expected name[:HashType]", s)
	}

	return EntryTypeReference{
		EntryType:          naming.ToPascal(segments[0]),
		ReferenceEntryHash: referenceEntryHash,
	}, nil
}

func (r EntryTypeReference) HashType() FieldType {
	if r.ReferenceEntryHash {
		return EntryHash
	}
	return ActionHash
}

// FieldName is the name of a field holding hashes of this entry type:
// post_hash for one, post_hashes for many.
func (r EntryTypeReference) FieldName(c Cardinality) string {
	stem := naming.ToSnake(r.EntryType)
	if c == Vector {
		return stem + "_hashes"
	}
	return stem + "_hash"
}

// Name is the entry type name in the grammatical number for c.
func (r EntryTypeReference) Name(c Cardinality) string {
	if c == Vector {
		return naming.Pluralize(r.EntryType, 2)
	}
	return naming.Pluralize(r.EntryType, 1)
}

// String is the CLI form, which parses back to r.
func (r EntryTypeReference) String() string {
	literal := ActionHashLiteral
	if r.ReferenceEntryHash {
		literal = EntryHashLiteral
	}
	return naming.ToSnake(r.EntryType) + ":" + literal
}

type referenceKind int

const (
	agentReference referenceKind = iota + 1
	entryTypeReference
)

// Referenceable is anything a link or reference can point at: an agent
// playing a role, or an entry type. Build one with AgentReferenceable or
// EntryTypeReferenceable.
type Referenceable struct {
	kind      referenceKind
	role      string
	entryType EntryTypeReference
}

func AgentReferenceable(role string) Referenceable {
	return Referenceable{kind: agentReference, role: role}
}

func EntryTypeReferenceable(r EntryTypeReference) Referenceable {
	return Referenceable{kind: entryTypeReference, entryType: r}
}

// ParseReferenceable reads "agent[:role]" or an entry type reference.
func ParseReferenceable(s string) (Referenceable, error) {
	segments := strings.Split(s, ":")
	if err := naming.CheckCase(segments[0], "referenceable", naming.Snake); err != nil {
		return Referenceable{}, err
	}

	if segments[0] == defaultAgentRole {
		switch len(segments) {
		case 1:
			return AgentReferenceable(defaultAgentRole), nil
		case 2:
			if segments[1] == "" {
				return Referenceable{}, shared.Validationf(ErrInvalidReference, "%q: empty agent role", s)
			}
			return AgentReferenceable(segments[1]), nil
		default:
			return Referenceable{}, shared.Validationf(ErrInvalidReference, "%q: expected agent[:role]", s)
		}
	}

	r, err := ParseEntryTypeReference(s)
	if err != nil {
		return Referenceable{}, err
	}
	return EntryTypeReferenceable(r), nil
}

func (r Referenceable) IsAgent() bool {
	return r.kind == agentReference
}

// Role is the agent role, or "" for an entry type.
func (r Referenceable) Role() string {
	return r.role
}

// EntryTypeReference returns the referenced entry type, if r is one.
func (r Referenceable) EntryTypeReference() (EntryTypeReference, bool) {
	return r.entryType, r.kind == entryTypeReference
}

func (r Referenceable) HashType() FieldType {
	switch r.kind {
	case agentReference:
		return AgentPubKey
	case entryTypeReference:
		return r.entryType.HashType()
	default:
		panic(fmt.Sprintf("models: uninitialized referenceable %+v", r))
	}
}

// FieldName derives the field or argument name that holds c values of r.
func (r Referenceable) FieldName(c Cardinality) string {
	switch r.kind {
	case agentReference:
		name := naming.ToSnake(r.Name(c))
		if c == Vector && name == naming.ToSnake(r.role) {
			// uncountable role: keep the plural distinct from the singular
			name += "_list"
		}
		return name
	case entryTypeReference:
		return r.entryType.FieldName(c)
	default:
		panic(fmt.Sprintf("models: uninitialized referenceable %+v", r))
	}
}

// Name is the display name: the role or entry type, pluralized for vectors.
func (r Referenceable) Name(c Cardinality) string {
	var singular string
	switch r.kind {
	case agentReference:
		singular = r.role
	case entryTypeReference:
		singular = r.entryType.EntryType
	default:
		panic(fmt.Sprintf("models: uninitialized referenceable %+v", r))
	}
	if c == Vector {
		return naming.Pluralize(singular, 2)
	}
	return singular
}

// String is the CLI form, which parses back to r.
func (r Referenceable) String() string {
	switch r.kind {
	case agentReference:
		return defaultAgentRole + ":" + r.role
	case entryTypeReference:
		return r.entryType.String()
	default:
		return ""
	}
}

func (r Referenceable) SingularName() string      { return r.Name(Single) }
func (r Referenceable) PluralName() string        { return r.Name(Vector) }
func (r Referenceable) SingularFieldName() string { return r.FieldName(Single) }
func (r Referenceable) PluralFieldName() string   { return r.FieldName(Vector) }

func (r Referenceable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		HashType    string `json:"hash_type"`
		SingularArg string `json:"singular_arg"`
	}{
		Name:        r.Name(Single),
		HashType:    r.HashType().String(),
		SingularArg: r.FieldName(Single),
	})
}
