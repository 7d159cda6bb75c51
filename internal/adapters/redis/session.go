package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/robertarktes/lumiere-hotel/internal/booking"
	"github.com/robertarktes/lumiere-hotel/internal/search"
)

// SessionStore persists per-session UI state (search filters and the
// booking draft) as JSON documents with a sliding TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func filtersKey(sessionID string) string { return "session:" + sessionID + ":filters" }
func draftKey(sessionID string) string   { return "session:" + sessionID + ":draft" }

// LoadFilters returns the stored filters, or the defaults for a new session.
func (s *SessionStore) LoadFilters(ctx context.Context, sessionID string) (search.Filters, error) {
	f := search.DefaultFilters()
	found, err := s.load(ctx, filtersKey(sessionID), &f)
	if err != nil {
		return search.Filters{}, err
	}
	if !found {
		return search.DefaultFilters(), nil
	}
	return f, nil
}

func (s *SessionStore) SaveFilters(ctx context.Context, sessionID string, f search.Filters) error {
	return s.save(ctx, filtersKey(sessionID), f)
}

func (s *SessionStore) DeleteFilters(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, filtersKey(sessionID)).Err()
}

// LoadDraft returns the stored draft, or the empty draft.
func (s *SessionStore) LoadDraft(ctx context.Context, sessionID string) (booking.Draft, error) {
	d := booking.EmptyDraft()
	found, err := s.load(ctx, draftKey(sessionID), &d)
	if err != nil {
		return booking.Draft{}, err
	}
	if !found {
		return booking.EmptyDraft(), nil
	}
	return d, nil
}

func (s *SessionStore) SaveDraft(ctx context.Context, sessionID string, d booking.Draft) error {
	return s.save(ctx, draftKey(sessionID), d)
}

func (s *SessionStore) DeleteDraft(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKey(sessionID)).Err()
}

func (s *SessionStore) load(ctx context.Context, key string, dst any) (bool, error) {
	val, err := s.client.GetEx(ctx, key, s.ttl).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "get %s", key)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

func (s *SessionStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return errors.Wrapf(s.client.Set(ctx, key, data, s.ttl).Err(), "set %s", key)
}
