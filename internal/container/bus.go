package container

import (
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"github.com/serroba/shorturl-conformance/internal/report"
	"go.uber.org/zap"
)

// Bus carries result events. Without Redis it is an in-process channel and
// Local is true.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Local      bool
}

func (b *Bus) Shutdown() error {
	return errors.Join(b.Publisher.Close(), b.Subscriber.Close())
}

func BusPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Bus, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.RedisAddr == "" {
			ch := messaging.NewInProcess(logger)

			return &Bus{Publisher: ch, Subscriber: ch, Local: true}, nil
		}

		client := do.MustInvoke[*Redis](i).Client

		pub, err := messaging.NewRedisPublisher(client, logger)
		if err != nil {
			return nil, err
		}

		sub, err := messaging.NewRedisSubscriber(client, opts.ConsumerGroup, logger)
		if err != nil {
			_ = pub.Close()

			return nil, err
		}

		return &Bus{Publisher: pub, Subscriber: sub}, nil
	})
}

// ConsumersPackage provides the group that moves result events into the store.
func ConsumersPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		bus := do.MustInvoke[*Bus](i)
		store := do.MustInvoke[report.Store](i)

		// The bus closes the subscriber.
		group := messaging.NewConsumerGroup(nil, logger)
		group.Add(report.NewConsumers(bus.Subscriber, store, logger)...)

		return group, nil
	})
}
