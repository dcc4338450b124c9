package conformance

import (
	"fmt"
	"strings"
)

// failNow is panicked by recorder.FailNow and recovered by the runner.
type failNow struct{}

// recorder is the TB handed to scenarios by the Runner.
type recorder struct {
	failures  []string
	transport bool
}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, summarize(fmt.Sprintf(format, args...)))
}

func (r *recorder) FailNow() {
	panic(failNow{})
}

func (r *recorder) Helper() {}

func (r *recorder) markTransport() {
	r.transport = true
}

func (r *recorder) failed() bool {
	return len(r.failures) > 0
}

// summarize reduces a testify failure block to its Error and Messages parts.
func summarize(msg string) string {
	var (
		parts   []string
		current string
		keep    bool
	)

	flush := func() {
		if keep && current != "" {
			parts = append(parts, current)
		}

		current = ""
	}

	for _, line := range strings.Split(msg, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if label, rest, ok := strings.Cut(trimmed, ":"); ok && isTestifyLabel(label) {
			flush()

			keep = label == "Error" || label == "Messages"
			current = strings.TrimSpace(rest)

			continue
		}

		if current == "" {
			current = trimmed
		} else {
			current += " " + trimmed
		}
	}

	flush()

	if len(parts) == 0 {
		return strings.Join(strings.Fields(msg), " ")
	}

	return strings.Join(parts, ": ")
}

func isTestifyLabel(label string) bool {
	switch label {
	case "Error Trace", "Error", "Test", "Messages":
		return true
	default:
		return false
	}
}
