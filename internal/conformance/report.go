package conformance

import "time"

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// FailureKind tells a broken service apart from an unreachable one.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureAssertion FailureKind = "assertion"
	FailureTransport FailureKind = "transport"
)

// Result is the outcome of one scenario.
type Result struct {
	Order     int
	Name      string
	Status    Status
	Kind      FailureKind
	Failures  []string
	Notes     []string
	DependsOn []int
	Duration  time.Duration
}

// Passed reports whether the scenario passed.
func (r Result) Passed() bool {
	return r.Status == StatusPassed
}

// Report is the outcome of one run.
type Report struct {
	RunID      string
	BaseURL    string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
	// Leftovers are codes the run created and did not delete.
	Leftovers []string
}

func (r *Report) Passed() int {
	n := 0

	for _, res := range r.Results {
		if res.Passed() {
			n++
		}
	}

	return n
}

func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Result returns the result of the scenario with the given order.
func (r *Report) Result(order int) (Result, bool) {
	for _, res := range r.Results {
		if res.Order == order {
			return res, true
		}
	}

	return Result{}, false
}
