package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a scaffolding failure.
type ErrorKind int

const (
	// KindValidation covers bad user input caught while building the model.
	KindValidation ErrorKind = iota + 1
	// KindTemplate covers template parse and execution failures.
	KindTemplate
	// KindConflict covers merges that would destroy existing content.
	KindConflict
	// KindCollaborator covers fetch and filesystem failures.
	KindCollaborator
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindTemplate:
		return "template error"
	case KindConflict:
		return "merge conflict"
	case KindCollaborator:
		return "collaborator error"
	default:
		return "unknown error"
	}
}

// ScaffoldError is the typed failure surfaced to callers. Subject names the
// offending path, locator or input value when there is one.
type ScaffoldError struct {
	Kind    ErrorKind
	Subject string
	Err     error
}

func (e *ScaffoldError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *ScaffoldError) Unwrap() error {
	return e.Err
}

// ValidationError wraps err as a validation failure.
func ValidationError(err error) error {
	return &ScaffoldError{Kind: KindValidation, Err: err}
}

// Validationf builds a validation failure around sentinel, adding detail.
func Validationf(sentinel error, format string, args ...interface{}) error {
	return &ScaffoldError{
		Kind: KindValidation,
		Err:  fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

func TemplateError(path string, err error) error {
	return &ScaffoldError{Kind: KindTemplate, Subject: path, Err: err}
}

func ConflictError(path string, err error) error {
	return &ScaffoldError{Kind: KindConflict, Subject: path, Err: err}
}

func CollaboratorError(subject string, err error) error {
	return &ScaffoldError{Kind: KindCollaborator, Subject: subject, Err: err}
}

// KindOf reports the kind of the first ScaffoldError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *ScaffoldError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries a ScaffoldError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
