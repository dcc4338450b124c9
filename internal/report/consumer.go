package report

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers returns one consumer per result topic, both writing into store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicScenarioFinished,
			func(ctx context.Context, event *ScenarioFinishedEvent) error {
				return store.SaveScenario(ctx, event)
			},
			logger,
		),
		messaging.NewConsumer(subscriber, TopicRunFinished,
			func(ctx context.Context, event *RunFinishedEvent) error {
				return store.SaveRun(ctx, event)
			},
			logger,
		),
	}
}
