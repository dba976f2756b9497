package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error_IncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("disk full")
	e := New(Backend, "write failed", cause)
	assert.Contains(t, e.Error(), "backend")
	assert.Contains(t, e.Error(), "write failed")
	assert.Contains(t, e.Error(), "disk full")
}

func TestError_Error_OmitsCauseWhenNil(t *testing.T) {
	e := New(Input, "bad argument", nil)
	assert.NotContains(t, e.Error(), "<nil>")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := New(Shape, "bad blob", cause)
	assert.Equal(t, cause, errors.Unwrap(e))
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(Backend, "msg", nil))
}

func TestIs_MatchesByKindAcrossWrapping(t *testing.T) {
	e := New(Integrity, "dangling reference", nil)
	wrapped := fmt.Errorf("context: %w", e)

	assert.True(t, Is(wrapped, Integrity))
	assert.False(t, Is(wrapped, Shape))
}

func TestIs_FalseForNonAppError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), Backend))
}

func TestErrors_Is_WorksViaErrorIsMethod(t *testing.T) {
	a := New(Configuration, "missing field", nil)
	b := New(Configuration, "different message", nil)
	assert.True(t, errors.Is(a, b))
}
