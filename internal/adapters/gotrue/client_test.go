package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", 2*time.Second)
}

func TestSignUp_SendsMetadataAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var body signUpRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)
		assert.Equal(t, "Ana", body.Data["name"])
		assert.Equal(t, "customer", body.Data["role"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"uid-1","email":"ana@example.com","user_metadata":{"name":"Ana","role":"customer"},"created_at":"2026-01-02T03:04:05Z"}`))
	})

	id, err := c.SignUp(context.Background(), "ana@example.com", "secret123", map[string]any{"name": "Ana", "role": "customer"})
	require.NoError(t, err)

	assert.Equal(t, "uid-1", id.ID)
	assert.Equal(t, "Ana", id.UserMetadata["name"])
}

func TestSignUp_KeepsProviderFields(t *testing.T) {
	user := `{"id":"uid-1","aud":"authenticated","role":"authenticated","email":"ana@example.com",
		"email_confirmed_at":null,"phone":"","confirmation_sent_at":"2026-01-02T03:04:05.123456Z",
		"app_metadata":{"provider":"email","providers":["email"]},
		"user_metadata":{"name":"Ana","role":"customer"},"identities":[],
		"created_at":"2026-01-02T03:04:05.120000Z","updated_at":"2026-01-02T03:04:05.130000Z"}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(user))
	})

	id, err := c.SignUp(context.Background(), "ana@example.com", "secret123", nil)
	require.NoError(t, err)

	out, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, user, string(out))
}

func TestSignUp_SessionShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"a","refresh_token":"r","user":{"id":"uid-9","email":"x@example.com"}}`))
	})

	id, err := c.SignUp(context.Background(), "x@example.com", "secret123", nil)
	require.NoError(t, err)
	assert.Equal(t, "uid-9", id.ID)

	out, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"uid-9","email":"x@example.com"}`, string(out))
}

func TestSignUp_ProviderErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	})

	_, err := c.SignUp(context.Background(), "ana@example.com", "secret123", nil)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnprocessableEntity, perr.Status)
	assert.Equal(t, "User already registered", err.Error())
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_, _ = w.Write([]byte(`{"access_token":"acc","token_type":"bearer","expires_in":3600,"expires_at":1767225600,"refresh_token":"ref","user":{"id":"uid-1","email":"ana@example.com","user_metadata":{"name":"Ana"}}}`))
	})

	s, err := c.SignInWithPassword(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "acc", s.AccessToken)
	assert.Equal(t, "ref", s.RefreshToken)
	assert.Equal(t, 3600, s.ExpiresIn)
	require.NotNil(t, s.User)
	assert.Equal(t, "uid-1", s.User.ID)
}

func TestSignInWithPassword_KeepsProviderFields(t *testing.T) {
	session := `{"access_token":"acc","token_type":"bearer","expires_in":3600,"expires_at":1767225600,
		"refresh_token":"ref","provider_token":"gh-123","provider_refresh_token":null,
		"user":{"id":"uid-1","aud":"authenticated","email":"ana@example.com",
			"email_confirmed_at":"2026-01-02T03:04:05Z","app_metadata":{"provider":"email"},
			"user_metadata":{"name":"Ana"},"created_at":"2026-01-01T00:00:00Z"},
		"weak_password":null}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(session))
	})

	s, err := c.SignInWithPassword(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Ana", s.User.UserMetadata["name"])

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, session, string(out))

	user, err := json.Marshal(s.User)
	require.NoError(t, err)
	assert.Contains(t, string(user), `"app_metadata":{"provider":"email"}`)
	assert.NotContains(t, string(user), "0001-01-01")
}

func TestSignInWithPassword_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignInWithPassword(context.Background(), "ana@example.com", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestErrorMessage_Fallback(t *testing.T) {
	assert.Equal(t, "identity provider returned 503", errorMessage(503, []byte("<html>")))
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"message":"boom"}`)))
	assert.Equal(t, "invalid_grant", errorMessage(400, []byte(`{"error":"invalid_grant"}`)))
}
