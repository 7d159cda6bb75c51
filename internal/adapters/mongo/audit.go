package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        string    `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    string    `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogEvent(ctx context.Context, action string, userID string, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

// LogAuth records a sign-up or sign-in. Credentials are never stored.
func (a *AuditLogger) LogAuth(ctx context.Context, action, userID, email string) error {
	return a.LogEvent(ctx, action, userID, map[string]interface{}{"email": email})
}

func (a *AuditLogger) LogBooking(ctx context.Context, action string, b domain.Booking) error {
	data := map[string]interface{}{
		"booking_id": b.ID.String(),
		"room_id":    b.RoomID,
		"check_in":   b.CheckIn.Format(time.RFC3339),
		"check_out":  b.CheckOut.Format(time.RFC3339),
		"guests":     b.Guests,
		"total":      b.TotalPrice,
		"status":     string(b.Status),
	}
	return a.LogEvent(ctx, action, b.UserID, data)
}
