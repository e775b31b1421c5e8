package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher publishes transition events onto a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Subscriber consumes messages from a topic. Its method set matches
// message.Subscriber, so any PubSub can be handed to the router directly.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// PubSub combines both Publisher and Subscriber interfaces
type PubSub interface {
	Publisher
	Subscriber
}

// MessagePublisher exposes p as a watermill message.Publisher so the router
// can move failed messages to the poison topic on the same backend. Closing
// it leaves p open; p stays owned by whoever created it.
func MessagePublisher(p Publisher) message.Publisher {
	return &messagePublisher{publisher: p}
}

type messagePublisher struct {
	publisher Publisher
}

func (m *messagePublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if err := m.publisher.Publish(msg.Context(), topic, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *messagePublisher) Close() error {
	return nil
}
