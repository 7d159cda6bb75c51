package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	redisadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/redis"
	"github.com/robertarktes/lumiere-hotel/internal/idempotency"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddleware_EmptySecretRejectsEverything(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "attacker",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	reached := false
	h := JWTMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	for _, raw := range []string{forged, token(t, "user-1", time.Now().Add(time.Hour))} {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.False(t, reached)
}

func TestIdempotencyMiddleware_PanicReleasesKey(t *testing.T) {
	backend := &memIdemp{responses: map[string]redisadapter.IdempResponse{}, locks: map[string]bool{}}
	idemp := idempotency.NewIdempotency(backend, time.Hour)

	calls := 0
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.With(IdempotencyMiddleware(idemp, observability.NewNopLogger())).Post("/bookings", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("catalog unavailable")
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "confirmed"})
	})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set("Idempotency-Key", "booking-key-0000000009")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusInternalServerError, post().Code)
	assert.Empty(t, backend.locks, "key released after the panic")

	rec := post()
	assert.Equal(t, http.StatusCreated, rec.Code, "retry is served, not rejected as in flight")
	assert.Equal(t, 2, calls)

	replay := post()
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 2, calls)
}
