package conformance

import (
	"context"
	"errors"
	"fmt"
)

var ErrScenarioOrder = errors.New("scenarios must be numbered 1..n in declaration order")

// TB is the assertion target of a scenario. *testing.T satisfies it.
type TB interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
}

// Scenario is one step of a run.
type Scenario struct {
	Order int
	Name  string
	// DependsOn lists scenarios whose side effects this one relies on.
	DependsOn []int
	Run       func(ctx context.Context, t TB, s *Session)
}

// ValidateOrder checks that scenarios are numbered 1..n in the order given
// and only depend on earlier ones.
func ValidateOrder(scenarios []Scenario) error {
	for i, sc := range scenarios {
		if sc.Order != i+1 {
			return fmt.Errorf("%w: position %d has order %d", ErrScenarioOrder, i+1, sc.Order)
		}

		for _, dep := range sc.DependsOn {
			if dep < 1 || dep >= sc.Order {
				return fmt.Errorf("%w: scenario %d depends on %d", ErrScenarioOrder, sc.Order, dep)
			}
		}

		if sc.Run == nil {
			return fmt.Errorf("scenario %d %q has no body", sc.Order, sc.Name)
		}
	}

	return nil
}
