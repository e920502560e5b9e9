package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverledger/pkg/requestcontext"
)

func TestHMACValidator(t *testing.T) {
	validator := NewHMACValidator("test-key")

	t.Run("accepts token it signed", func(t *testing.T) {
		token, err := SignSubject("test-key", "alice")
		require.NoError(t, err)

		subject, err := validator.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		token, err := SignSubject("other-key", "alice")
		require.NoError(t, err)

		_, err = validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := validator.Validate("not-a-token")
		assert.Error(t, err)
	})
}

func TestRequireAuth(t *testing.T) {
	validator := NewHMACValidator("test-key")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotCaller string
	handler := RequireAuth(validator, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = requestcontext.CallerID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("injects caller identity", func(t *testing.T) {
		token, err := SignSubject("test-key", "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "alice", gotCaller)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
