package models

import (
	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

// LinkTypeData parametrizes link-type scaffolding. ToEntryType is empty for a
// link whose target is not entry-typed, such as a path anchor.
type LinkTypeData struct {
	DnaRoleName         string `json:"dna_role_name"`
	CoordinatorZomeName string `json:"coordinator_zome_name"`
	FromEntryType       string `json:"from_entry_type"`
	ToEntryType         string `json:"to_entry_type,omitempty"`
	Bidirectional       bool   `json:"bidirectional"`
	Delete              bool   `json:"delete"`

	from Referenceable
	to   *Referenceable
}

// NewLinkTypeData validates the role and zome names and parses both ends as
// referenceables.
func NewLinkTypeData(dnaRoleName, coordinatorZomeName, fromEntryType, toEntryType string, bidirectional, deletable bool) (LinkTypeData, error) {
	if err := naming.CheckCase(dnaRoleName, "dna role name", naming.Snake); err != nil {
		return LinkTypeData{}, err
	}
	if err := naming.CheckCase(coordinatorZomeName, "coordinator zome name", naming.Snake); err != nil {
		return LinkTypeData{}, err
	}

	from, err := ParseReferenceable(fromEntryType)
	if err != nil {
		return LinkTypeData{}, err
	}

	data := LinkTypeData{
		DnaRoleName:         dnaRoleName,
		CoordinatorZomeName: coordinatorZomeName,
		FromEntryType:       fromEntryType,
		ToEntryType:         toEntryType,
		Bidirectional:       bidirectional,
		Delete:              deletable,
		from:                from,
	}
	if toEntryType != "" {
		to, err := ParseReferenceable(toEntryType)
		if err != nil {
			return LinkTypeData{}, err
		}
		data.to = &to
	} else if bidirectional {
		return LinkTypeData{}, shared.Validationf(ErrInvalidReference, "a path-based link cannot be bidirectional")
	}
	return data, nil
}

func (l LinkTypeData) From() Referenceable {
	return l.from
}

// To is nil for a link without an entry-typed target.
func (l LinkTypeData) To() *Referenceable {
	return l.to
}

func (l LinkTypeData) HasTo() bool {
	return l.to != nil
}

// LinkTypeName names the link: PostToComments, or AllPosts when the link is
// path based.
func (l LinkTypeData) LinkTypeName() string {
	if l.to == nil {
		return "All" + naming.ToPascal(l.from.Name(Vector))
	}
	return naming.ToPascal(l.from.Name(Single)) + "To" + naming.ToPascal(l.to.Name(Vector))
}

// InverseLinkTypeName names the reverse link of a bidirectional link.
func (l LinkTypeData) InverseLinkTypeName() string {
	if l.to == nil {
		return ""
	}
	return naming.ToPascal(l.to.Name(Single)) + "To" + naming.ToPascal(l.from.Name(Vector))
}

func (l LinkTypeData) SnakeCaseName() string {
	return naming.ToSnake(l.LinkTypeName())
}
