package conformance

import (
	"fmt"
	"testing"
)

// RunT runs scenarios as sequential subtests of t against session.
func RunT(t *testing.T, session *Session, scenarios []Scenario) {
	t.Helper()

	if err := ValidateOrder(scenarios); err != nil {
		t.Fatal(err)
	}

	for _, sc := range scenarios {
		t.Run(fmt.Sprintf("%d %s", sc.Order, sc.Name), func(t *testing.T) {
			sc.Run(t.Context(), t, session)
		})
	}
}
