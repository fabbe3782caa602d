package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/infra/db"
	"github.com/DarkArtheme/museumguide-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type MuseumStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMuseumStore(database *mongo.Database, timeout time.Duration) *MuseumStore {
	return &MuseumStore{
		coll:    database.Collection(db.MuseumsCollection),
		timeout: timeout,
	}
}

// List returns the whole catalog ordered by ascending id.
func (s *MuseumStore) List(ctx context.Context) (museums []models.Museum, err error) {
	ctx, done := startOp(ctx, "MuseumStore.List", "find", db.MuseumsCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find museums: %w", err)
	}
	defer cur.Close(ctx)

	if err = cur.All(ctx, &museums); err != nil {
		return nil, fmt.Errorf("decode museums: %w", err)
	}
	if museums == nil {
		museums = []models.Museum{}
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("museums.count", len(museums)))
	return museums, nil
}

// Get returns nil, nil when no museum has the given id.
func (s *MuseumStore) Get(ctx context.Context, id int) (museum *models.Museum, err error) {
	ctx, done := startOp(ctx, "MuseumStore.Get", "find_one", db.MuseumsCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var m models.Museum
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find museum %d: %w", id, err)
	}
	return &m, nil
}
