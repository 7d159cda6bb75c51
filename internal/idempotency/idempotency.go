package idempotency

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	redisadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/redis"
)

// ErrInFlight means another request with the same key has not finished.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

type Backend interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Idempotency struct {
	redis Backend
	ttl   time.Duration
}

func NewIdempotency(redis Backend, ttl time.Duration) *Idempotency {
	return &Idempotency{redis: redis, ttl: ttl}
}

type Response struct {
	Status int
	Result []byte
}

func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	stored, err := i.redis.Get(ctx, key)
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{Status: stored.Status, Result: stored.Result}, nil
}

func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	return i.redis.Set(ctx, key, redisadapter.IdempResponse{Status: resp.Status, Result: resp.Result}, i.ttl)
}

// Begin returns a replayable response when key already completed, or claims
// the key for the caller. A claimed key must be finished with Complete or
// Abort.
func (i *Idempotency) Begin(ctx context.Context, key string) (*Response, error) {
	existing, err := i.Get(ctx, key)
	if err != nil || existing != nil {
		return existing, err
	}
	ok, err := i.redis.Reserve(ctx, key, i.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInFlight
	}
	return nil, nil
}

// Complete stores the response for replay. Only successful responses are
// kept; anything else releases the key so the client may retry.
func (i *Idempotency) Complete(ctx context.Context, key string, resp Response) error {
	if resp.Status >= 200 && resp.Status < 300 {
		return i.Set(ctx, key, resp)
	}
	return i.Abort(ctx, key)
}

func (i *Idempotency) Abort(ctx context.Context, key string) error {
	return i.redis.Release(ctx, key)
}
