package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/crdb"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
)

const (
	batchSize  = 50
	maxRetries = 3
	// claimLease must outlast publishing a full batch with retries.
	claimLease = 2 * time.Minute
)

type Source interface {
	ClaimUnpublishedOutbox(ctx context.Context, limit int, lease time.Duration) ([]crdb.OutboxRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

type Sink interface {
	Publish(ctx context.Context, key, messageID string, body []byte) error
}

// Publisher relays booking events from the outbox table to the broker.
type Publisher struct {
	repo     Source
	sink     Sink
	logger   observability.Logger
	interval time.Duration
	backoff  time.Duration
	lease    time.Duration
}

func NewPublisher(repo Source, sink Sink, logger observability.Logger, interval time.Duration) *Publisher {
	return &Publisher{repo: repo, sink: sink, logger: logger, interval: interval, backoff: time.Second, lease: claimLease}
}

func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("Outbox publisher started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.RelayOnce(ctx); err != nil {
				p.logger.WithError(err).Error("outbox relay failed")
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many records went out.
// Records that keep failing are marked FAILED so they stop blocking the
// queue.
func (p *Publisher) RelayOnce(ctx context.Context) (int, error) {
	records, err := p.repo.ClaimUnpublishedOutbox(ctx, batchSize, p.lease)
	if err != nil {
		return 0, err
	}
	if len(records) > 0 {
		observability.OutboxLag.Set(time.Since(records[0].CreatedAt).Seconds())
	} else {
		observability.OutboxLag.Set(0)
	}

	sent := 0
	for _, rec := range records {
		if err := p.publishWithRetry(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			p.logger.WithError(err).WithField("outbox_id", rec.ID).Error("failed to publish outbox record after retries")
			if err := p.repo.MarkFailed(ctx, rec.ID); err != nil {
				p.logger.WithError(err).WithField("outbox_id", rec.ID).Error("failed to mark outbox record failed")
			}
			continue
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, time.Now().UTC()); err != nil {
			p.logger.WithError(err).WithField("outbox_id", rec.ID).Error("failed to mark outbox record published")
			continue
		}
		sent++
	}
	return sent, nil
}

func (p *Publisher) publishWithRetry(ctx context.Context, rec crdb.OutboxRecord) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = p.sink.Publish(ctx, rec.EventType, rec.DedupeKey, rec.Payload); err == nil {
			return nil
		}
		observability.RabbitPublishRetries.Inc()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<i)):
		}
	}
	return err
}
