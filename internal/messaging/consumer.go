package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes one decoded event.
type Handler[T any] func(ctx context.Context, event *T) error

// Runnable is anything with a start/stop lifecycle driven by a ConsumerGroup.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// Consumer decodes JSON messages from one topic and feeds them to a Handler.
// A message is acked once the handler succeeds and nacked for redelivery when it
// fails. Messages that cannot be decoded are acked and dropped.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	logger     *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewConsumer creates a consumer for topic.
func NewConsumer[T any](subscriber message.Subscriber, topic string, handler Handler[T], logger *zap.Logger) *Consumer[T] {
	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		logger:     logger.With(zap.String("topic", topic)),
		done:       make(chan struct{}),
	}
}

// Topic returns the subscribed topic.
func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes and processes messages on a background goroutine.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return err
	}

	go c.loop(ctx, msgs)

	return nil
}

func (c *Consumer[T]) loop(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			if c.process(ctx, msg) {
				msg.Ack()
			} else {
				msg.Nack()
			}
		}
	}
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) bool {
	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		c.logger.Error("dropping undecodable message", zap.String("uuid", msg.UUID), zap.Error(err))

		return true
	}

	if err := c.handler(ctx, &event); err != nil {
		c.logger.Error("handler failed", zap.String("uuid", msg.UUID), zap.Error(err))

		return false
	}

	c.logger.Debug("message processed", zap.String("uuid", msg.UUID))

	return true
}

// Shutdown stops the loop and waits for the message in flight. It is a no-op
// for a consumer that was never started.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel == nil {
		return nil
	}

	c.once.Do(c.cancel)

	<-c.done

	return nil
}
