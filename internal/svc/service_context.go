package svc

import (
	"context"
	"fmt"
	"time"

	"github.com/DarkArtheme/museumguide-backend/config"
	"github.com/DarkArtheme/museumguide-backend/internal/infra/cache"
	"github.com/DarkArtheme/museumguide-backend/internal/infra/db"
	"github.com/DarkArtheme/museumguide-backend/internal/infra/mq"
	"github.com/DarkArtheme/museumguide-backend/internal/middleware"
	"github.com/DarkArtheme/museumguide-backend/internal/store"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type ServiceContext struct {
	Config *config.Config
	Mongo  *mongo.Client
	DB     *mongo.Database
	Cache  *cache.RedisCache
	Rabbit *mq.RabbitMQ

	MuseumStore   *store.MuseumStore
	FavoriteStore *store.FavoriteStore

	// Catalog is MuseumStore, fronted by Redis when Redis is reachable
	// and CACHE_TTL is positive.
	Catalog store.Catalog

	tracerProvider *tracesdk.TracerProvider
	consumer       *mq.Consumer
	cancelConsumer context.CancelFunc
}

// NewServiceContext wires every dependency. MongoDB is mandatory; Redis,
// RabbitMQ and Jaeger are optional and only logged when unreachable.
func NewServiceContext(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	client, err := db.InitMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	database := client.Database(cfg.MongoDB)

	s := &ServiceContext{
		Config:        cfg,
		Mongo:         client,
		DB:            database,
		MuseumStore:   store.NewMuseumStore(database, cfg.MongoTimeout),
		FavoriteStore: store.NewFavoriteStore(database, cfg.MongoTimeout),
	}
	s.Catalog = s.MuseumStore

	if err := prepareFavorites(ctx, s.FavoriteStore); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("prepare %s: %w", db.FavoritesCollection, err)
	}

	rdb, err := cache.New(cfg)
	if err != nil {
		zap.L().Warn("Redis connection failed, continuing without Redis", zap.Error(err))
	} else {
		zap.L().Info("Redis connected successfully")
		s.Cache = rdb
		s.Catalog = newCatalog(s.MuseumStore, rdb, cfg.CacheTTL)
	}

	rabbit, err := mq.New(cfg)
	if err != nil {
		zap.L().Warn("RabbitMQ connection failed, favorite events disabled", zap.Error(err))
	} else {
		zap.L().Info("RabbitMQ connected successfully")
		s.Rabbit = rabbit
		if s.Cache != nil {
			consumerCtx, cancel := context.WithCancel(context.Background())
			s.consumer = mq.NewConsumer(rabbit, s.Cache)
			s.cancelConsumer = cancel
			s.consumer.Start(consumerCtx)
		}
	}

	if cfg.JaegerEndpoint != "" {
		tp, err := middleware.InitTracer("museumguide", cfg.AppEnv, cfg.JaegerEndpoint)
		if err != nil {
			zap.L().Warn("failed to init tracer", zap.Error(err))
		} else {
			s.tracerProvider = tp
		}
	}

	return s, nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// prepareFavorites creates the unique UserId index. If users_and_fav
// already holds duplicate UserId records the build fails with E11000;
// that is logged and startup continues without the index.
func prepareFavorites(ctx context.Context, favorites indexer) error {
	err := favorites.EnsureIndexes(ctx)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		zap.L().Warn("users_and_fav has duplicate UserId records, unique index not created",
			zap.Error(err))
		return nil
	}
	return err
}

// newCatalog puts the Redis cache in front of the museum store only when
// a positive TTL is configured. A newly seeded museum can stay invisible
// for up to 1.1x the TTL.
func newCatalog(base store.Catalog, rdb *cache.RedisCache, ttl time.Duration) store.Catalog {
	if rdb == nil || ttl <= 0 {
		return base
	}
	zap.L().Info("catalog cache enabled", zap.Duration("ttl", ttl))
	return store.NewCachedCatalog(base, rdb, ttl)
}

// Ping reports whether MongoDB answers.
func (s *ServiceContext) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.Config.MongoTimeout)
	defer cancel()
	return s.Mongo.Ping(ctx, readpref.Primary())
}

func (s *ServiceContext) Close() {
	if s.cancelConsumer != nil {
		s.cancelConsumer()
		s.consumer.Wait()
	}

	if s.Rabbit != nil {
		s.Rabbit.Close()
		zap.L().Info("RabbitMQ closed")
	}

	if s.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.tracerProvider.Shutdown(ctx); err != nil {
			zap.L().Error("Tracer shutdown error", zap.Error(err))
		}
		cancel()
	}

	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			zap.L().Error("Redis close error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Mongo.Disconnect(ctx); err != nil {
		zap.L().Error("MongoDB disconnect error", zap.Error(err))
	}
}
