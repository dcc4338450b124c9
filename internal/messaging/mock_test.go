package messaging_test

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

type mockPublisher struct {
	topic      string
	messages   []*message.Message
	publishErr error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

type mockSubscriber struct {
	msgs         chan *message.Message
	subscribeErr error
	closeErr     error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{msgs: make(chan *message.Message, 8)}
}

func (m *mockSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	return m.msgs, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgs)
	}

	return m.closeErr
}

type mockRunnable struct {
	started     bool
	stopped     bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.stopped = true

	return m.shutdownErr
}
