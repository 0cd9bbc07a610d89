package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := ValidationError("subject must not be empty")
		assert.Equal(t, "validation: subject must not be empty", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := SourceUnavailableError("fetch failed", cause)
		assert.Equal(t, "source_unavailable: fetch failed: connection refused", err.Error())
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("row not found")
	err := PersistenceError("upsert failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"validation", ValidationError("bad input"), http.StatusBadRequest},
		{"not found", NotFoundError("unknown subject"), http.StatusNotFound},
		{"no data", NoDataError("no items in window"), http.StatusNotFound},
		{"source unavailable", SourceUnavailableError("provider down", nil), http.StatusBadGateway},
		{"persistence", PersistenceError("write failed", nil), http.StatusInternalServerError},
		{"internal", InternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestWithContext(t *testing.T) {
	err := NoDataError("no items in window").
		WithContext("subject", "AAPL").
		WithField("window_days", 7)

	assert.Equal(t, "AAPL", err.Context["subject"])
	assert.Equal(t, 7, err.Context["window_days"])
}

func TestToResponse(t *testing.T) {
	err := NoDataError("no items in window").WithContext("subject", "TSLA")

	resp := err.ToResponse()
	assert.Equal(t, "no items in window", resp.Error)
	assert.Equal(t, TypeNoData, resp.Type)
	assert.Equal(t, "TSLA", resp.Context["subject"])
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured error passes through", func(t *testing.T) {
		original := ValidationError("bad input")
		converted := AsStructuredError(original)
		assert.Same(t, original, converted)
	})

	t.Run("wrapped structured error is recovered", func(t *testing.T) {
		original := NoDataError("no items in window")
		wrapped := stderrors.Join(stderrors.New("outer"), original)

		converted := AsStructuredError(wrapped)
		require.NotNil(t, converted)
		assert.Equal(t, TypeNoData, converted.Type)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		converted := AsStructuredError(stderrors.New("boom"))
		require.NotNil(t, converted)
		assert.Equal(t, TypeInternal, converted.Type)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus())
	})
}
