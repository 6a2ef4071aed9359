package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("load recipe: %w", ErrNotFound.WithMessage("食譜不存在"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ce.Status)
	assert.Equal(t, "食譜不存在", ce.Message)
}

func TestCustomErrorWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrAIServiceError.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrAIServiceError)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("set meal: %w", NewValidationError("bad date"))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrNotFound))
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2025-01-27", 6)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-02", got)

	_, err = AddDays("27/01/2025", 6)
	assert.True(t, IsValidationError(err))
}
