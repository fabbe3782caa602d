package museum

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/DarkArtheme/museumguide-backend/internal/models"
	"github.com/DarkArtheme/museumguide-backend/internal/utils"
	"github.com/DarkArtheme/museumguide-backend/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListMuseums answers the whole catalog in id order, each entry flagged
// against the caller's favorites.
func (h *MuseumHandler) ListMuseums(c *gin.Context) {
	var req validators.UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ctx := c.Request.Context()

	favs, err := h.favoriteSet(ctx, req.UserID.String())
	if err != nil {
		h.dbError(c, "list museums", err)
		return
	}

	museums, err := h.catalog.List(ctx)
	if err != nil {
		h.dbError(c, "list museums", err)
		return
	}

	views := make([]ShortView, 0, len(museums))
	for _, m := range museums {
		views = append(views, newShortView(m, favs))
	}
	c.JSON(http.StatusOK, views)
}

// GetMuseum answers the full view, or JSON null for an unknown id.
func (h *MuseumHandler) GetMuseum(c *gin.Context) {
	var req validators.MuseumIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ctx := c.Request.Context()

	museum, err := h.catalog.Get(ctx, req.MuseumID.Int())
	if err != nil {
		h.dbError(c, "get museum", err)
		return
	}
	if museum == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	favs, err := h.favoriteSet(ctx, req.UserID.String())
	if err != nil {
		h.dbError(c, "get museum", err)
		return
	}

	c.JSON(http.StatusOK, newFullView(*museum, favs))
}

// ListFavoriteMuseums filters the catalog down to the caller's favorites.
// Order follows the catalog, not the order ids were favorited in.
func (h *MuseumHandler) ListFavoriteMuseums(c *gin.Context) {
	var req validators.UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ctx := c.Request.Context()

	favs, err := h.favoriteSet(ctx, req.UserID.String())
	if err != nil {
		h.dbError(c, "list favorite museums", err)
		return
	}

	views := make([]ShortView, 0, len(favs))
	if len(favs) > 0 {
		museums, err := h.catalog.List(ctx)
		if err != nil {
			h.dbError(c, "list favorite museums", err)
			return
		}
		for _, m := range museums {
			if favs.has(m.ID) {
				views = append(views, newShortView(m, favs))
			}
		}
	}
	c.JSON(http.StatusOK, views)
}

// PopularMuseums answers favorite counts, most favorited first.
// Without a popularity source the answer is [].
func (h *MuseumHandler) PopularMuseums(c *gin.Context) {
	result := make([]models.MuseumPopularity, 0)
	if h.popularity == nil {
		c.JSON(http.StatusOK, result)
		return
	}

	counts, err := h.popularity.FavoriteCounts(c.Request.Context())
	if err != nil {
		zap.L().Warn("favorite counts unavailable", zap.Error(err))
		c.JSON(http.StatusOK, result)
		return
	}

	for id, n := range counts {
		if n > 0 {
			result = append(result, models.MuseumPopularity{MuseumID: id, Count: n})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].MuseumID < result[j].MuseumID
	})
	c.JSON(http.StatusOK, result)
}

// favoriteSet goes through the favorites store, so an unknown user gets
// an empty record created as a side effect.
func (h *MuseumHandler) favoriteSet(ctx context.Context, userID string) (favoriteSet, error) {
	ids, err := h.favorites.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return newFavoriteSet(ids), nil
}

func (h *MuseumHandler) dbError(c *gin.Context, op string, err error) {
	zap.L().Error(op+" failed", zap.Error(err))
	_ = c.Error(err)
	utils.Error(c, http.StatusInternalServerError, "database error")
}
