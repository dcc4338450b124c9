package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/serroba/shorturl-conformance/internal/report"
)

var ErrNotFound = errors.New("run not found")

// RunRecord is everything stored about one run.
type RunRecord struct {
	Run       *report.RunFinishedEvent
	Scenarios []*report.ScenarioFinishedEvent
}

// MemoryStore keeps results in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]*RunRecord
	latest string
}

// NewMemoryStore creates an empty in-memory result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*RunRecord)}
}

func (m *MemoryStore) record(runID string) *RunRecord {
	rec, ok := m.runs[runID]
	if !ok {
		rec = &RunRecord{}
		m.runs[runID] = rec
	}

	return rec
}

// SaveScenario stores a scenario result, replacing an earlier one with the same order.
func (m *MemoryStore) SaveScenario(_ context.Context, event *report.ScenarioFinishedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.record(event.RunID)

	for i, s := range rec.Scenarios {
		if s.Order == event.Order {
			rec.Scenarios[i] = event

			return nil
		}
	}

	rec.Scenarios = append(rec.Scenarios, event)
	sort.Slice(rec.Scenarios, func(i, j int) bool {
		return rec.Scenarios[i].Order < rec.Scenarios[j].Order
	})

	return nil
}

// SaveRun stores the run summary and marks it as the latest run.
func (m *MemoryStore) SaveRun(_ context.Context, event *report.RunFinishedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(event.RunID).Run = event
	m.latest = event.RunID

	return nil
}

// Run returns a copy of the stored record for runID.
func (m *MemoryStore) Run(runID string) (*RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}

	return &RunRecord{
		Run:       rec.Run,
		Scenarios: append([]*report.ScenarioFinishedEvent(nil), rec.Scenarios...),
	}, nil
}

// Latest returns the run whose summary was saved last.
func (m *MemoryStore) Latest() (*RunRecord, error) {
	m.mu.RLock()
	latest := m.latest
	m.mu.RUnlock()

	if latest == "" {
		return nil, ErrNotFound
	}

	return m.Run(latest)
}

var _ report.Store = (*MemoryStore)(nil)
