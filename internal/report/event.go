package report

import "time"

const (
	TopicScenarioFinished = "conformance.scenario.finished"
	TopicRunFinished      = "conformance.run.finished"
)

// ScenarioFinishedEvent is emitted once per executed scenario.
type ScenarioFinishedEvent struct {
	RunID       string        `json:"runId"`
	Order       int           `json:"order"`
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	FailureKind string        `json:"failureKind,omitempty"`
	Failures    []string      `json:"failures,omitempty"`
	DependsOn   []int         `json:"dependsOn,omitempty"`
	Duration    time.Duration `json:"duration"`
	FinishedAt  time.Time     `json:"finishedAt"`
}

// RunFinishedEvent is emitted after the last scenario of a run.
type RunFinishedEvent struct {
	RunID      string    `json:"runId"`
	BaseURL    string    `json:"baseUrl"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Passed     int       `json:"passed"`
	Failed     int       `json:"failed"`
}
