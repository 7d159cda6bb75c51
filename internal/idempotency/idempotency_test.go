package idempotency

import (
	"context"
	"testing"
	"time"

	redisadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	responses map[string]redisadapter.IdempResponse
	locks     map[string]bool
}

func newMemBackend() *memBackend {
	return &memBackend{responses: map[string]redisadapter.IdempResponse{}, locks: map[string]bool{}}
}

func (m *memBackend) Get(_ context.Context, key string) (*redisadapter.IdempResponse, error) {
	r, ok := m.responses[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memBackend) Set(_ context.Context, key string, resp redisadapter.IdempResponse, _ time.Duration) error {
	m.responses[key] = resp
	return nil
}

func (m *memBackend) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *memBackend) Release(_ context.Context, key string) error {
	delete(m.locks, key)
	return nil
}

func TestBeginCompleteReplay(t *testing.T) {
	ctx := context.Background()
	idem := NewIdempotency(newMemBackend(), time.Hour)

	resp, err := idem.Begin(ctx, "key-0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = idem.Begin(ctx, "key-0123456789abcdef")
	assert.ErrorIs(t, err, ErrInFlight)

	require.NoError(t, idem.Complete(ctx, "key-0123456789abcdef", Response{Status: 201, Result: []byte(`{"ok":true}`)}))

	resp, err = idem.Begin(ctx, "key-0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 201, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Result))
}

func TestCompleteFailureReleasesKey(t *testing.T) {
	ctx := context.Background()
	idem := NewIdempotency(newMemBackend(), time.Hour)

	_, err := idem.Begin(ctx, "key-fedcba9876543210")
	require.NoError(t, err)
	require.NoError(t, idem.Complete(ctx, "key-fedcba9876543210", Response{Status: 400}))

	resp, err := idem.Begin(ctx, "key-fedcba9876543210")
	require.NoError(t, err)
	assert.Nil(t, resp)
}
