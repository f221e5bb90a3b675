package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusConflict},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{InvalidToken("stale"), http.StatusBadRequest},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status, "%s", tt.err.Code)
	}
}

func TestFrom(t *testing.T) {
	appErr := NotFound("gone")
	assert.Same(t, appErr, From(fmt.Errorf("wrapped: %w", appErr)))

	plain := errors.New("boom")
	got := From(plain)
	assert.Equal(t, CodeInternal, got.Code)
	assert.ErrorIs(t, got, plain)
}

func TestInternalHidesCause(t *testing.T) {
	got := Internal(errors.New("pq: connection refused"))
	assert.Equal(t, "internal server error", got.Message)
	assert.Contains(t, got.Error(), "connection refused")
}
