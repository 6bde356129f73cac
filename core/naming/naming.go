// Package naming holds the case conventions, English pluralization and
// reserved-word rules shared by the model and the template helpers.
package naming

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"
	"github.com/iancoleman/strcase"

	"github.com/c12i/scaffolding/core/shared"
)

var (
	ErrInvalidCase  = errors.New("invalid case")
	ErrReservedWord = errors.New("reserved word")
)

type Case int

const (
	Snake Case = iota
	Pascal
	Camel
	Kebab
)

func (c Case) String() string {
	switch c {
	case Snake:
		return "snake_case"
	case Pascal:
		return "PascalCase"
	case Camel:
		return "camelCase"
	case Kebab:
		return "kebab-case"
	default:
		panic(fmt.Sprintf("naming: unknown case %d", int(c)))
	}
}

// Convert rewrites s into case c.
func Convert(s string, c Case) string {
	switch c {
	case Snake:
		return strcase.ToSnake(s)
	case Pascal:
		return strcase.ToCamel(s)
	case Camel:
		return strcase.ToLowerCamel(s)
	case Kebab:
		return strcase.ToKebab(s)
	default:
		panic(fmt.Sprintf("naming: unknown case %d", int(c)))
	}
}

func ToSnake(s string) string  { return Convert(s, Snake) }
func ToPascal(s string) string { return Convert(s, Pascal) }
func ToCamel(s string) string  { return Convert(s, Camel) }
func ToKebab(s string) string  { return Convert(s, Kebab) }

// CheckCase fails unless s is non-empty and already written in case c.
// context names the value in the error message.
func CheckCase(s, context string, c Case) error {
	if s == "" || Convert(s, c) != s {
		return shared.Validationf(ErrInvalidCase, "%s %q must be %s", context, s, c)
	}
	return nil
}

// pluralizer is read-only after construction.
var pluralizer = pluralize.NewClient()

// Pluralize returns word in the grammatical number for count, keeping the
// casing of the input.
func Pluralize(word string, count int) string {
	return pluralizer.Pluralize(word, count, false)
}

func Plural(word string) string {
	return pluralizer.Plural(word)
}

func Singular(word string) string {
	return pluralizer.Singular(word)
}

// reservedWords are identifiers a scaffolded field may not take: Go keywords
// and predeclared names, plus names the host data model already claims.
var reservedWords = map[string]bool{
	// Go keywords
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
	// predeclared
	"nil": true, "true": true, "false": true, "iota": true, "error": true,
	"string": true, "bool": true, "byte": true, "rune": true, "any": true,
	// host data model
	"role": true, "hdk": true, "hdi": true, "entry": true, "action": true,
	"record": true, "link": true, "zome": true, "dna": true,
}

// CheckReservedWords fails when name (case-insensitively) is reserved.
func CheckReservedWords(name string) error {
	if reservedWords[strings.ToLower(name)] {
		return shared.Validationf(ErrReservedWord, "%q is a reserved word and cannot be used as a name", name)
	}
	return nil
}
