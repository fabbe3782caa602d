package router

import (
	"context"
	"net/http"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/favorite"
	"github.com/DarkArtheme/museumguide-backend/internal/middleware"
	"github.com/DarkArtheme/museumguide-backend/internal/museum"
	"github.com/DarkArtheme/museumguide-backend/internal/svc"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const welcomeMessage = " This is start page "

type Deps struct {
	Museums   *museum.MuseumHandler
	Favorites *favorite.FavoriteHandler
	// Ping backs /healthz. nil reports healthy.
	Ping func(ctx context.Context) error
	// RateLimit is applied to the API routes when set.
	RateLimit gin.HandlerFunc
}

// New builds the engine with the middleware chain and every route.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		zap.L().Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.PrometheusMetrics())
	r.Use(middleware.Tracing())

	// Every origin, method and header is allowed; the origin is reflected
	// so credentialed requests keep working.
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, welcomeMessage)
	})
	r.GET("/healthz", healthz(d.Ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}
	{
		api.POST("/get_favorites", d.Favorites.GetFavorites)
		api.POST("/add_to_favorites", d.Favorites.AddToFavorites)
		api.POST("/delete_from_favorites", d.Favorites.DeleteFromFavorites)

		api.POST("/museums", d.Museums.ListMuseums)
		api.POST("/museums/by_id", d.Museums.GetMuseum)
		api.POST("/favorites", d.Museums.ListFavoriteMuseums)
		api.GET("/museums/popular", d.Museums.PopularMuseums)
	}

	return r
}

// FromServiceContext wires handlers to the live stores. Optional
// infrastructure that failed to connect is left out instead of being
// passed as a typed nil.
func FromServiceContext(s *svc.ServiceContext) *gin.Engine {
	var publisher favorite.Publisher
	if s.Rabbit != nil {
		publisher = s.Rabbit
	}

	var popularity museum.Popularity
	var rateLimit gin.HandlerFunc
	if s.Cache != nil {
		popularity = s.Cache
		if s.Config.RateLimit > 0 {
			rateLimit = middleware.RateLimitMiddleware(s.Cache, "api", s.Config.RateLimit, s.Config.RateWindow)
		}
	}

	return New(Deps{
		Museums:   museum.NewMuseumHandler(s.Catalog, s.FavoriteStore, popularity),
		Favorites: favorite.NewFavoriteHandler(s.FavoriteStore, publisher),
		Ping:      s.Ping,
		RateLimit: rateLimit,
	})
}

func healthz(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				zap.L().Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
