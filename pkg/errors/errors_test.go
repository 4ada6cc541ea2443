package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/AX07/cryptoax07-visual-generator/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("keeps app error code", func(t *testing.T) {
		base := apperrors.NewAppError(apperrors.ErrInvalidResponse, "No response from Gemini", nil)
		wrapped := apperrors.Wrap(base, "design-prompts")

		assert.Equal(t, apperrors.ErrInvalidResponse, apperrors.CodeOf(wrapped))
		assert.True(t, apperrors.Is(wrapped, base))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		wrapped := apperrors.Wrap(fmt.Errorf("boom"), "context")
		assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(wrapped))
		assert.Equal(t, "context: boom", wrapped.Error())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, apperrors.Wrap(nil, "ignored"))
	})
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"configuration", apperrors.NewAppError(apperrors.ErrConfiguration, "missing key", nil), http.StatusInternalServerError},
		{"unknown action", apperrors.NewAppError(apperrors.ErrUnknownAction, "Invalid action", nil), http.StatusBadRequest},
		{"invalid argument", apperrors.NewAppError(apperrors.ErrInvalidArgument, "bad", nil), http.StatusBadRequest},
		{"echo error passthrough", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed"), http.StatusMethodNotAllowed},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, apperrors.ToHTTPError(tt.err).Code)
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	assert.Equal(t, apperrors.ErrUpstream, apperrors.CodeOf(apperrors.FromHTTPStatus(http.StatusBadGateway, "bad gateway")))
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(apperrors.FromHTTPStatus(http.StatusNotFound, "missing")))
}
