package mongo

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type CatalogRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("rooms"),
		logger: logger,
	}
}

// ListRooms returns the whole catalog in its display order.
func (c *CatalogRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	cur, err := c.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		c.logger.Error("failed to list rooms", err)
		return nil, err
	}
	defer cur.Close(ctx)

	rooms := []domain.Room{}
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, errors.Wrap(err, "decode rooms")
	}
	return rooms, nil
}

func (c *CatalogRepository) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		c.logger.Error("failed to get room", err)
		return nil, err
	}
	return &room, nil
}

type roomDoc struct {
	domain.Room `bson:",inline"`
	Position    int `bson:"position"`
}

// UpsertRooms writes rooms keyed by id, keeping the slice order as the
// catalog order.
func (c *CatalogRepository) UpsertRooms(ctx context.Context, rooms []domain.Room) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, room := range rooms {
		doc := roomDoc{Room: room, Position: i}
		g.Go(func() error {
			_, err := c.coll.ReplaceOne(gctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
			return errors.Wrapf(err, "upsert room %s", doc.ID)
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("failed to upsert rooms", err)
		return err
	}
	return nil
}

func (c *CatalogRepository) Ping(ctx context.Context) error {
	return c.coll.Database().Client().Ping(ctx, nil)
}
