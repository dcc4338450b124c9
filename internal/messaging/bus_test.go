package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewInProcess(t *testing.T) {
	t.Run("publish returns after the consumer handled the event", func(t *testing.T) {
		bus := messaging.NewInProcess(zap.NewNop())

		var (
			mu  sync.Mutex
			got []int
		)

		consumer := messaging.NewConsumer(bus, "results", func(_ context.Context, e *sampleEvent) error {
			mu.Lock()
			defer mu.Unlock()

			got = append(got, e.Order)

			return nil
		}, zap.NewNop())

		group := messaging.NewConsumerGroup(bus, zap.NewNop())
		group.Add(consumer)
		require.NoError(t, group.Start(context.Background()))

		publish := messaging.NewPublishFunc[sampleEvent](bus, "results")
		for i := 1; i <= 3; i++ {
			require.NoError(t, publish(&sampleEvent{RunID: "r", Order: i}))
		}

		mu.Lock()
		assert.Equal(t, []int{1, 2, 3}, got)
		mu.Unlock()

		done := make(chan error, 1)
		go func() { done <- group.Shutdown() }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("shutdown hung")
		}
	})
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := messaging.NewZapAdapter(zap.New(core))

	adapter.With(watermill.LogFields{"topic": "t"}).Info("subscribed", watermill.LogFields{"n": 1})
	adapter.Error("failed", errors.New("boom"), nil)
	adapter.Trace("trace", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "subscribed", entries[0].Message)
	assert.Equal(t, "t", entries[0].ContextMap()["topic"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["n"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}
