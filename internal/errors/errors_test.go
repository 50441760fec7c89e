package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), string(tt.code))
	}
}

func TestSentinelMatching(t *testing.T) {
	err := NotFound("product not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))

	wrapped := fmt.Errorf("list products: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, "product not found", domainErr.Message)
}

func TestInternalKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Internal("query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
