package favorite

import (
	"context"
	"net/http"

	"github.com/DarkArtheme/museumguide-backend/internal/metrics"
	"github.com/DarkArtheme/museumguide-backend/internal/models"
	"github.com/DarkArtheme/museumguide-backend/internal/utils"
	"github.com/DarkArtheme/museumguide-backend/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetFavorites answers the user's favorite museum ids. An unknown user
// gets a fresh empty record and [].
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	var req validators.UserIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ids, err := h.store.Get(c.Request.Context(), req.UserID.String())
	if err != nil {
		zap.L().Error("get favorites failed", zap.String("user_id", req.UserID.String()), zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "database error")
		return
	}

	c.JSON(http.StatusOK, ids)
}

func (h *FavoriteHandler) AddToFavorites(c *gin.Context) {
	var req validators.FavMuseumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	changed, err := h.store.Add(c.Request.Context(), req.UserID.String(), req.FavID.Int())
	if err != nil {
		zap.L().Error("add favorite failed",
			zap.String("user_id", req.UserID.String()), zap.Int("museum_id", req.FavID.Int()), zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "database error")
		return
	}

	if changed {
		h.publish(c.Request.Context(), models.FavoriteMsg{
			UserID:   req.UserID.String(),
			MuseumID: req.FavID.Int(),
			Action:   models.FavoriteActionAdd,
		})
	}

	c.Status(http.StatusOK)
}

// DeleteFromFavorites is a no-op for users without a record; the
// response is the same empty 200 either way.
func (h *FavoriteHandler) DeleteFromFavorites(c *gin.Context) {
	var req validators.FavMuseumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	changed, err := h.store.Remove(c.Request.Context(), req.UserID.String(), req.FavID.Int())
	if err != nil {
		zap.L().Error("delete favorite failed",
			zap.String("user_id", req.UserID.String()), zap.Int("museum_id", req.FavID.Int()), zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "database error")
		return
	}

	if changed {
		h.publish(c.Request.Context(), models.FavoriteMsg{
			UserID:   req.UserID.String(),
			MuseumID: req.FavID.Int(),
			Action:   models.FavoriteActionRemove,
		})
	}

	c.Status(http.StatusOK)
}

// publish never fails the request; the favorites write already happened.
func (h *FavoriteHandler) publish(ctx context.Context, msg models.FavoriteMsg) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishFavorite(ctx, msg); err != nil {
		metrics.FavoriteEventsPublishFailures.Inc()
		zap.L().Warn("publish favorite event failed",
			zap.String("user_id", msg.UserID),
			zap.Int("museum_id", msg.MuseumID),
			zap.String("action", msg.Action),
			zap.Error(err),
		)
	}
}
