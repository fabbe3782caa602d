package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/DarkArtheme/museumguide-backend/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var errUnknownAction = errors.New("unknown favorite action")

type FavoriteCounter interface {
	IncrFavoriteCount(ctx context.Context, museumID int, delta int64) error
}

// DeliverySource is the consuming side of a queue; *RabbitMQ implements it.
type DeliverySource interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
}

// Consumer folds favorite change events into popularity counters.
type Consumer struct {
	source  DeliverySource
	counter FavoriteCounter
	wg      sync.WaitGroup
}

func NewConsumer(source DeliverySource, counter FavoriteCounter) *Consumer {
	return &Consumer{
		source:  source,
		counter: counter,
	}
}

// Start launches consumer goroutines. They stop when ctx is done
// or the delivery channel is closed.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeFavorite(ctx)
	}()
}

// Wait blocks until every goroutine launched by Start has returned,
// including one that is finishing a delivery.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) consumeFavorite(ctx context.Context) {
	msgs, err := c.source.Consume(FavoriteQueue)
	if err != nil {
		zap.L().Error("Failed to start favorite consumer", zap.Error(err))
		return
	}

	zap.L().Info("Waiting for favorite messages...")

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				zap.L().Warn("favorite delivery channel closed")
				return
			}
			c.dispatch(ctx, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	err := c.handleFavorite(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errUnknownAction), isDecodeError(err):
		// bad payloads are dropped, redelivery would not help
		zap.L().Warn("dropping favorite msg", zap.Error(err))
		_ = d.Nack(false, false)
	default:
		zap.L().Error("favorite msg failed, requeueing", zap.Error(err))
		_ = d.Nack(false, true)
	}
}

func (c *Consumer) handleFavorite(ctx context.Context, body []byte) error {
	var msg models.FavoriteMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return &decodeError{err: err}
	}

	var delta int64
	switch msg.Action {
	case models.FavoriteActionAdd:
		delta = 1
	case models.FavoriteActionRemove:
		delta = -1
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, msg.Action)
	}

	if err := c.counter.IncrFavoriteCount(ctx, msg.MuseumID, delta); err != nil {
		return fmt.Errorf("update favorite count for museum %d: %w", msg.MuseumID, err)
	}

	zap.L().Debug("favorite counted",
		zap.String("user_id", msg.UserID),
		zap.Int("museum_id", msg.MuseumID),
		zap.String("action", msg.Action),
	)
	return nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode favorite msg: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var de *decodeError
	return errors.As(err, &de)
}
