package testutil

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// RecordingPubSub is a pubsub.PubSub that keeps every published message per
// topic. Subscribers only see messages published after they subscribe.
type RecordingPubSub struct {
	mu          sync.Mutex
	published   map[string][]*message.Message
	subscribers map[string][]chan *message.Message
	publishErr  error
	closed      bool
}

func NewRecordingPubSub() *RecordingPubSub {
	return &RecordingPubSub{
		published:   make(map[string][]*message.Message),
		subscribers: make(map[string][]chan *message.Message),
	}
}

// FailPublish makes every following Publish return err until reset with nil
func (ps *RecordingPubSub) FailPublish(err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.publishErr = err
}

func (ps *RecordingPubSub) Publish(ctx context.Context, topic string, msg *message.Message) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.publishErr != nil {
		return ps.publishErr
	}

	msg.SetContext(ctx)
	ps.published[topic] = append(ps.published[topic], msg)
	for _, ch := range ps.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

func (ps *RecordingPubSub) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan *message.Message, 100)
	ps.subscribers[topic] = append(ps.subscribers[topic], ch)
	return ch, nil
}

func (ps *RecordingPubSub) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.closed {
		return nil
	}
	ps.closed = true
	for _, subscribers := range ps.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
	}
	return nil
}

// Published returns the messages published to topic so far
func (ps *RecordingPubSub) Published(topic string) []*message.Message {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]*message.Message(nil), ps.published[topic]...)
}
