// Package stays closes out bookings once the guest has checked out.
package stays

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
)

const maxRetries = 3

type Completer interface {
	CompleteFinishedStays(ctx context.Context, now time.Time) ([]domain.Booking, error)
}

type Auditor interface {
	LogBooking(ctx context.Context, action string, b domain.Booking) error
}

type Worker struct {
	repo    Completer
	audit   Auditor
	logger  observability.Logger
	now     func() time.Time
	backoff time.Duration
}

func NewWorker(repo Completer, audit Auditor, logger observability.Logger) *Worker {
	return &Worker{repo: repo, audit: audit, logger: logger, now: time.Now, backoff: time.Second}
}

func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	w.logger.Info("Stay worker started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.CompleteOnce(ctx); err != nil {
				w.logger.WithError(err).Error("failed to complete finished stays")
			}
		}
	}
}

// CompleteOnce marks every finished stay as completed, retrying transient
// store failures with exponential backoff.
func (w *Worker) CompleteOnce(ctx context.Context) ([]domain.Booking, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		done, err := w.repo.CompleteFinishedStays(ctx, w.now().UTC())
		if err == nil {
			for _, b := range done {
				observability.BookingsTotal.WithLabelValues(string(domain.BookingCompleted)).Inc()
				if err := w.audit.LogBooking(ctx, "booking.completed", b); err != nil {
					w.logger.WithError(err).WithField("booking_id", b.ID).Warn("audit booking")
				}
			}
			if len(done) > 0 {
				w.logger.WithField("count", len(done)).Info("stays completed")
			}
			return done, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(1<<i) * w.backoff):
		}
	}
	return nil, errors.Wrapf(lastErr, "failed after %d retries", maxRetries)
}
