package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shorturl-conformance/internal/report"
	"github.com/stretchr/testify/assert"
)

type failingStore struct {
	err error
}

func (f failingStore) SaveScenario(_ context.Context, _ *report.ScenarioFinishedEvent) error {
	return f.err
}

func (f failingStore) SaveRun(_ context.Context, _ *report.RunFinishedEvent) error {
	return f.err
}

func TestTee(t *testing.T) {
	t.Run("writes to every store", func(t *testing.T) {
		a, b := &mockStore{}, &mockStore{}
		store := report.Tee(a, b)

		assert.NoError(t, store.SaveScenario(context.Background(), &report.ScenarioFinishedEvent{Order: 1}))
		assert.NoError(t, store.SaveRun(context.Background(), &report.RunFinishedEvent{RunID: "r"}))

		assert.Len(t, a.scenarios, 1)
		assert.Len(t, b.scenarios, 1)
		assert.Len(t, a.runs, 1)
		assert.Len(t, b.runs, 1)
	})

	t.Run("keeps writing after a failure", func(t *testing.T) {
		down := errors.New("db down")
		ok := &mockStore{}
		store := report.Tee(failingStore{err: down}, ok)

		err := store.SaveScenario(context.Background(), &report.ScenarioFinishedEvent{})

		assert.ErrorIs(t, err, down)
		assert.Len(t, ok.scenarios, 1)
	})
}
