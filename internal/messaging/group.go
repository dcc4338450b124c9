package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ConsumerGroup starts and stops a set of consumers together and closes the
// subscriber they share once all of them are down.
type ConsumerGroup struct {
	members    []Runnable
	subscriber io.Closer
	logger     *zap.Logger
}

// NewConsumerGroup creates an empty group. subscriber may be nil when its
// lifecycle is owned elsewhere.
func NewConsumerGroup(subscriber io.Closer, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers consumers. Call before Start.
func (g *ConsumerGroup) Add(members ...Runnable) {
	g.members = append(g.members, members...)
}

// Len returns the number of registered consumers.
func (g *ConsumerGroup) Len() int {
	return len(g.members)
}

// Start starts every member in order. If one fails, the ones already running
// are stopped in reverse order.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, m := range g.members {
		if err := m.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.members[j].Shutdown()
			}

			return fmt.Errorf("start consumer %d: %w", i, err)
		}
	}

	g.logger.Info("consumer group started", zap.Int("consumers", len(g.members)))

	return nil
}

// Shutdown stops every member, then the subscriber. All errors are joined.
func (g *ConsumerGroup) Shutdown() error {
	var errs []error

	for _, m := range g.members {
		if err := m.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	if g.subscriber != nil {
		if err := g.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	g.logger.Info("consumer group stopped")

	return errors.Join(errs...)
}
