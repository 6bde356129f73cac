package merge

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy decides what happens when a rendered file lands on an existing file
// with different content.
type Policy int

const (
	// PolicyFail refuses to touch the existing file.
	PolicyFail Policy = iota
	// PolicySplice replaces each marker-delimited span of the existing file
	// with the matching span of the rendered file.
	PolicySplice
	// PolicyAppend adds the rendered span's lines that the existing span
	// lacks, for registries that accumulate one line per generated unit.
	PolicyAppend
)

func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicySplice:
		return "splice"
	case PolicyAppend:
		return "append"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Rule applies Policy to paths matching Pattern, a doublestar glob over
// slash-separated paths relative to the tree root.
type Rule struct {
	Pattern string
	Policy  Policy
}

// PolicySet resolves the policy for a path. Rules are tried in order and the
// first match wins; unmatched paths get PolicyFail.
type PolicySet struct {
	rules []Rule
}

func NewPolicySet(rules ...Rule) (PolicySet, error) {
	for _, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return PolicySet{}, fmt.Errorf("invalid merge pattern %q", r.Pattern)
		}
	}
	rs := make([]Rule, len(rules))
	copy(rs, rules)
	return PolicySet{rules: rs}, nil
}

// PolicyFor returns the policy governing p.
func (ps PolicySet) PolicyFor(p string) Policy {
	for _, r := range ps.rules {
		if ok, _ := doublestar.Match(r.Pattern, p); ok {
			return r.Policy
		}
	}
	return PolicyFail
}

func (ps PolicySet) Rules() []Rule {
	rs := make([]Rule, len(ps.rules))
	copy(rs, ps.rules)
	return rs
}
