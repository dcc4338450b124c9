package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends one typed event.
type Publish[T any] func(event *T) error

// NewPublishFunc binds a JSON-encoding publish function to topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set("topic", topic)

		return publisher.Publish(topic, msg)
	}
}

// Discard is a publish function that drops every event.
func Discard[T any]() Publish[T] {
	return func(_ *T) error { return nil }
}
