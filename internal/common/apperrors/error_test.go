package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorChaining(t *testing.T) {
	ErrBase := New("base error")
	assert.Equal(t, "base error", ErrBase.Error())
	assert.Equal(t, "derived", ErrBase.New("derived").Error())
	assert.ErrorIs(t, ErrBase, ErrBase)

	ErrDerived := ErrBase.New("derived error")
	assert.Equal(t, "derived error", ErrDerived.Error())
	assert.ErrorIs(t, ErrDerived, ErrBase)

	goErr := errors.New("plain error")
	wrapped := ErrDerived.Err(goErr)
	assert.Equal(t, "derived error", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrBase)
	assert.ErrorIs(t, wrapped, goErr)

	wrapped = ErrDerived.MsgErr("with message", goErr)
	assert.Equal(t, "with message", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrDerived)
	assert.ErrorIs(t, wrapped, goErr)

	first := fmt.Errorf("first")
	second := fmt.Errorf("second")
	multi := ErrDerived.Err(first, second)
	assert.ErrorIs(t, multi, first)
	assert.ErrorIs(t, multi, second)
}

func TestErrorStatusCode(t *testing.T) {
	ErrBase := New("session error").SetStatusCode(http.StatusServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, ErrBase.StatusCode())

	// derived errors inherit the status code
	ErrDerived := ErrBase.New("session closed")
	assert.Equal(t, http.StatusServiceUnavailable, ErrDerived.StatusCode())

	ErrOverride := ErrDerived.SetStatusCode(http.StatusBadRequest)
	assert.Equal(t, http.StatusBadRequest, ErrOverride.StatusCode())
	assert.ErrorIs(t, ErrOverride, ErrBase)
}

func TestErrorAll(t *testing.T) {
	base := New("outer").SetExpandError(true)
	inner := errors.New("inner detail")
	err := base.MsgErr("operation failed", inner)
	assert.Equal(t, "operation failed; outer; inner detail", err.ErrorAll())
	assert.Len(t, err.UnwrapAll(), 2)

	collapsed := err.SetExpandError(false)
	assert.Equal(t, "operation failed", collapsed.ErrorAll())
}
