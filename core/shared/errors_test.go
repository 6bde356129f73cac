package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("failed to scaffold: %w", ConflictError("a/b.go", errSentinel))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, kind)
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindTemplate))
	assert.True(t, errors.Is(err, errSentinel))
	assert.Contains(t, err.Error(), "a/b.go")
}

func TestValidationf(t *testing.T) {
	err := Validationf(errSentinel, "field %s is bad", "x")
	assert.True(t, errors.Is(err, errSentinel))
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "validation error: sentinel: field x is bad", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errSentinel)
	assert.False(t, ok)
}

func TestToTitle(t *testing.T) {
	assert.Equal(t, "", ToTitle(""))
	assert.Equal(t, "Post", ToTitle("post"))
}
