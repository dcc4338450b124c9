package messaging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewInProcess returns a Go channel pub/sub. Publish blocks until every
// subscriber has acked, so results are persisted before the publisher moves on.
func NewInProcess(logger *zap.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, NewZapAdapter(logger))
}

// NewRedisPublisher publishes to Redis streams named after the topic.
func NewRedisPublisher(client redis.UniversalClient, logger *zap.Logger) (message.Publisher, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
	}, NewZapAdapter(logger))
	if err != nil {
		return nil, err
	}

	return pub, nil
}

// NewRedisSubscriber reads Redis streams as member of consumerGroup.
func NewRedisSubscriber(client redis.UniversalClient, consumerGroup string, logger *zap.Logger) (message.Subscriber, error) {
	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: consumerGroup,
	}, NewZapAdapter(logger))
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// ZapAdapter lets watermill log through zap.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter wraps logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

func (a *ZapAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (a *ZapAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, zapFields(fields)...)
}

func (a *ZapAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, zapFields(fields)...)
}

// Trace maps to debug; zap has no lower level.
func (a *ZapAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, zapFields(fields)...)
}

func (a *ZapAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &ZapAdapter{logger: a.logger.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}

	return out
}

var _ watermill.LoggerAdapter = (*ZapAdapter)(nil)
