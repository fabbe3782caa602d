package store

import (
	"context"
	"fmt"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/infra/db"
	"github.com/DarkArtheme/museumguide-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldUserID    = "UserId"
	fieldFavorites = "Favorites"
)

// FavoriteStore keeps one document per user id in users_and_fav.
// Every write is a single-document update, so the record never needs
// a read-then-write round trip.
type FavoriteStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewFavoriteStore(database *mongo.Database, timeout time.Duration) *FavoriteStore {
	return &FavoriteStore{
		coll:    database.Collection(db.FavoritesCollection),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique UserId index that backs the
// one-record-per-user rule.
func (s *FavoriteStore) EnsureIndexes(ctx context.Context) (err error) {
	ctx, done := startOp(ctx, "FavoriteStore.EnsureIndexes", "create_index", db.FavoritesCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fieldUserID, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_id"),
	})
	if err != nil {
		return fmt.Errorf("create UserId index: %w", err)
	}
	return nil
}

// Get returns the user's favorite ids, creating an empty record for an
// unknown user. The result is never nil.
func (s *FavoriteStore) Get(ctx context.Context, userID string) (ids []int, err error) {
	ctx, done := startOp(ctx, "FavoriteStore.Get", "find_one_and_update", db.FavoritesCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.D{{Key: fieldUserID, Value: userID}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: fieldFavorites, Value: bson.A{}}}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var fav models.UserFavorites
	if err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&fav); err != nil {
		return nil, fmt.Errorf("load favorites for %q: %w", userID, err)
	}
	if fav.Favorites == nil {
		return []int{}, nil
	}
	return fav.Favorites, nil
}

// Add puts museumID into the user's set, creating the record if needed.
// changed is false when the id was already present.
func (s *FavoriteStore) Add(ctx context.Context, userID string, museumID int) (changed bool, err error) {
	ctx, done := startOp(ctx, "FavoriteStore.Add", "update_one", db.FavoritesCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.D{{Key: fieldUserID, Value: userID}}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: fieldFavorites, Value: museumID}}}}

	res, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("add favorite %d for %q: %w", museumID, userID, err)
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

// Remove pulls museumID from the user's set. A missing record is left
// missing; changed is false in that case and when the id was absent.
func (s *FavoriteStore) Remove(ctx context.Context, userID string, museumID int) (changed bool, err error) {
	ctx, done := startOp(ctx, "FavoriteStore.Remove", "update_one", db.FavoritesCollection)
	defer func() { done(err) }()

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.D{{Key: fieldUserID, Value: userID}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: fieldFavorites, Value: museumID}}}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("remove favorite %d for %q: %w", museumID, userID, err)
	}
	return res.ModifiedCount > 0, nil
}
