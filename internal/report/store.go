package report

import (
	"context"
	"errors"
)

// Store persists conformance results.
type Store interface {
	SaveScenario(ctx context.Context, event *ScenarioFinishedEvent) error
	SaveRun(ctx context.Context, event *RunFinishedEvent) error
}

// Tee writes every result to all stores and joins their errors.
func Tee(stores ...Store) Store {
	return tee(stores)
}

type tee []Store

func (t tee) SaveScenario(ctx context.Context, event *ScenarioFinishedEvent) error {
	var errs []error

	for _, s := range t {
		if err := s.SaveScenario(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t tee) SaveRun(ctx context.Context, event *RunFinishedEvent) error {
	var errs []error

	for _, s := range t {
		if err := s.SaveRun(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
