package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/service"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, Message{Message: "done"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true,"data":{"message":"done"}}`, rec.Body.String())
}

func TestErrorMapsKinds(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{service.ValidationError("bad mood"), http.StatusBadRequest, "validation_error"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{service.ErrInactiveAccount, http.StatusForbidden, "forbidden"},
		{service.NotFoundError("alert not found"), http.StatusNotFound, "not_found"},
		{service.ConflictError("email taken"), http.StatusConflict, "conflict"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Error(rec, log, tt.err)

		assert.Equal(t, tt.status, rec.Code)
		env := decode(t, rec)
		assert.False(t, env.OK)
		require.NotNil(t, env.Error)
		assert.Equal(t, tt.code, env.Error.Code)
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, slog.New(slog.NewTextHandler(io.Discard, nil)), errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal_error", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "mongo")
}
