package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const (
	idempResultPrefix = "idempotency:result:"
	idempLockPrefix   = "idempotency:lock:"
)

// Idempotency stores the responses of completed requests and the locks of
// in-flight ones.
type Idempotency struct {
	client *redis.Client
}

func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client}
}

type IdempResponse struct {
	Status int    `json:"status"`
	Result []byte `json:"result"`
}

// Get returns the stored response, or nil when the key has none.
func (i *Idempotency) Get(ctx context.Context, key string) (*IdempResponse, error) {
	val, err := i.client.Get(ctx, idempResultPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get idempotent response")
	}
	var resp IdempResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, errors.Wrap(err, "decode idempotent response")
	}
	return &resp, nil
}

// Set stores resp and drops the in-flight lock in one transaction.
func (i *Idempotency) Set(ctx context.Context, key string, resp IdempResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "encode idempotent response")
	}
	pipe := i.client.TxPipeline()
	pipe.Set(ctx, idempResultPrefix+key, data, ttl)
	pipe.Del(ctx, idempLockPrefix+key)
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "store idempotent response")
}

// Reserve claims key for an in-flight request. It returns false when the
// key is already claimed.
func (i *Idempotency) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := i.client.SetNX(ctx, idempLockPrefix+key, 1, ttl).Result()
	return ok, errors.Wrap(err, "reserve idempotency key")
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	return errors.Wrap(i.client.Del(ctx, idempLockPrefix+key).Err(), "release idempotency key")
}
