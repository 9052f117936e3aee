package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

type codedError struct{ code string }

func (e *codedError) Error() string { return e.code }

func TestWrapKeepsIdentity(t *testing.T) {
	wrapped := Wrapf(Wrap(errSentinel, "inner"), "outer %d", 1)

	assert.True(t, Is(wrapped, errSentinel))
	assert.Equal(t, "outer 1: inner: sentinel", wrapped.Error())
	assert.Contains(t, fmt.Sprintf("%+v", wrapped), "errors_test.go")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, WithStack(nil))
}

func TestAsThroughStack(t *testing.T) {
	var target *codedError
	assert.True(t, As(WithStack(&codedError{code: "X"}), &target))
	assert.Equal(t, "X", target.code)
}
