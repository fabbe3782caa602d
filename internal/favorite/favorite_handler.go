package favorite

import (
	"context"

	"github.com/DarkArtheme/museumguide-backend/internal/models"
)

type Store interface {
	Get(ctx context.Context, userID string) ([]int, error)
	Add(ctx context.Context, userID string, museumID int) (bool, error)
	Remove(ctx context.Context, userID string, museumID int) (bool, error)
}

// Publisher receives favorite change events. It may be nil.
type Publisher interface {
	PublishFavorite(ctx context.Context, msg models.FavoriteMsg) error
}

type FavoriteHandler struct {
	store     Store
	publisher Publisher
}

func NewFavoriteHandler(store Store, publisher Publisher) *FavoriteHandler {
	return &FavoriteHandler{store: store, publisher: publisher}
}
