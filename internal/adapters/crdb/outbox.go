package crdb

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OutboxRecord struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Status        string // NEW, PUBLISHED, FAILED
	DedupeKey     string
}

func (r *Repository) InsertOutbox(ctx context.Context, tx pgx.Tx, record OutboxRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload_json, status, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, 'NEW', $6)
	`, record.ID, record.AggregateType, record.AggregateID, record.EventType, record.Payload, record.DedupeKey)
	return err
}

// ClaimUnpublishedOutbox leases up to limit NEW records to the caller until
// now+lease. Rows locked or leased by another relay are skipped, so
// concurrent relays never receive the same record while its lease holds.
// A relay that dies mid-batch leaves the lease to expire and the rows are
// picked up again.
func (r *Repository) ClaimUnpublishedOutbox(ctx context.Context, limit int, lease time.Duration) ([]OutboxRecord, error) {
	var records []OutboxRecord
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		records = records[:0]
		now := time.Now().UTC()
		rows, err := tx.Query(ctx, `
			UPDATE outbox SET claimed_until = $2
			WHERE id IN (
				SELECT id FROM outbox
				WHERE status = 'NEW' AND (claimed_until IS NULL OR claimed_until < $3)
				ORDER BY created_at ASC LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, aggregate_type, aggregate_id, event_type, payload_json, created_at, published_at, status, dedupe_key
		`, limit, now.Add(lease), now)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec OutboxRecord
			err := rows.Scan(&rec.ID, &rec.AggregateType, &rec.AggregateID, &rec.EventType, &rec.Payload, &rec.CreatedAt, &rec.PublishedAt, &rec.Status, &rec.DedupeKey)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "claim outbox")
	}
	// RETURNING does not preserve the subquery order.
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox SET status = 'PUBLISHED', published_at = $2 WHERE id = $1
	`, id, publishedAt)
	return err
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE outbox SET status = 'FAILED' WHERE id = $1`, id)
	return err
}
