package museum

import (
	"context"

	"github.com/DarkArtheme/museumguide-backend/internal/models"
)

type Catalog interface {
	List(ctx context.Context) ([]models.Museum, error)
	Get(ctx context.Context, id int) (*models.Museum, error)
}

type Favorites interface {
	Get(ctx context.Context, userID string) ([]int, error)
}

// Popularity reports museum id -> favorite count. It may be nil.
type Popularity interface {
	FavoriteCounts(ctx context.Context) (map[int]int64, error)
}

type MuseumHandler struct {
	catalog    Catalog
	favorites  Favorites
	popularity Popularity
}

func NewMuseumHandler(catalog Catalog, favorites Favorites, popularity Popularity) *MuseumHandler {
	return &MuseumHandler{
		catalog:    catalog,
		favorites:  favorites,
		popularity: popularity,
	}
}
