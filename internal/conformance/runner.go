package conformance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"github.com/serroba/shorturl-conformance/internal/report"
	"go.uber.org/zap"
)

// Runner executes scenarios one after another and reports each outcome.
type Runner struct {
	scenarios       []Scenario
	publishScenario messaging.Publish[report.ScenarioFinishedEvent]
	publishRun      messaging.Publish[report.RunFinishedEvent]
	logger          *zap.Logger
	now             func() time.Time
}

// NewRunner validates scenarios and returns a runner for them. Nil publish
// functions discard events.
func NewRunner(
	scenarios []Scenario,
	publishScenario messaging.Publish[report.ScenarioFinishedEvent],
	publishRun messaging.Publish[report.RunFinishedEvent],
	logger *zap.Logger,
) (*Runner, error) {
	if err := ValidateOrder(scenarios); err != nil {
		return nil, err
	}

	if publishScenario == nil {
		publishScenario = messaging.Discard[report.ScenarioFinishedEvent]()
	}

	if publishRun == nil {
		publishRun = messaging.Discard[report.RunFinishedEvent]()
	}

	return &Runner{
		scenarios:       scenarios,
		publishScenario: publishScenario,
		publishRun:      publishRun,
		logger:          logger,
		now:             time.Now,
	}, nil
}

// Run executes every scenario against session in declared order.
// A cancelled context fails the remaining scenarios as transport failures.
func (r *Runner) Run(ctx context.Context, session *Session) *Report {
	rep := &Report{
		RunID:     uuid.NewString(),
		BaseURL:   session.Client.BaseURL(),
		StartedAt: r.now(),
	}

	logger := r.logger.With(zap.String("run_id", rep.RunID), zap.String("base_url", rep.BaseURL))
	logger.Info("run started", zap.Int("scenarios", len(r.scenarios)))

	failed := make(map[int]bool, len(r.scenarios))

	for _, sc := range r.scenarios {
		res := r.runOne(ctx, sc, session)

		for _, dep := range sc.DependsOn {
			if failed[dep] {
				res.Notes = append(res.Notes, fmt.Sprintf("depends on scenario %d, which failed", dep))
			}
		}

		if !res.Passed() {
			failed[sc.Order] = true
		}

		rep.Results = append(rep.Results, res)
		r.log(logger, res)
		r.publishResult(logger, rep.RunID, res)
	}

	rep.FinishedAt = r.now()
	rep.Leftovers = session.Leftovers()

	logger.Info("run finished",
		zap.Int("passed", rep.Passed()),
		zap.Int("failed", rep.Failed()),
		zap.Strings("leftovers", rep.Leftovers),
		zap.Duration("duration", rep.FinishedAt.Sub(rep.StartedAt)),
	)

	err := r.publishRun(&report.RunFinishedEvent{
		RunID:      rep.RunID,
		BaseURL:    rep.BaseURL,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Passed:     rep.Passed(),
		Failed:     rep.Failed(),
	})
	if err != nil {
		logger.Warn("failed to publish run result", zap.Error(err))
	}

	return rep
}

func (r *Runner) runOne(ctx context.Context, sc Scenario, session *Session) Result {
	rec := &recorder{}
	start := r.now()

	if err := ctx.Err(); err != nil {
		rec.transport = true
		rec.failures = append(rec.failures, "run cancelled: "+err.Error())
	} else {
		r.execute(ctx, sc, session, rec)
	}

	res := Result{
		Order:     sc.Order,
		Name:      sc.Name,
		Status:    StatusPassed,
		DependsOn: sc.DependsOn,
		Duration:  r.now().Sub(start),
	}

	if rec.failed() {
		res.Status = StatusFailed
		res.Failures = rec.failures
		res.Kind = FailureAssertion

		if rec.transport {
			res.Kind = FailureTransport
		}
	}

	return res
}

func (r *Runner) execute(ctx context.Context, sc Scenario, session *Session, rec *recorder) {
	defer func() {
		if p := recover(); p != nil {
			if _, ok := p.(failNow); ok {
				return
			}

			rec.failures = append(rec.failures, fmt.Sprintf("panic: %v", p))
		}
	}()

	sc.Run(ctx, rec, session)
}

func (r *Runner) log(logger *zap.Logger, res Result) {
	fields := []zap.Field{
		zap.Int("order", res.Order),
		zap.String("scenario", res.Name),
		zap.Duration("duration", res.Duration),
	}

	if res.Passed() {
		logger.Info("scenario passed", fields...)

		return
	}

	fields = append(fields,
		zap.String("kind", string(res.Kind)),
		zap.Strings("failures", res.Failures),
	)
	if len(res.Notes) > 0 {
		fields = append(fields, zap.Strings("notes", res.Notes))
	}

	logger.Warn("scenario failed", fields...)
}

func (r *Runner) publishResult(logger *zap.Logger, runID string, res Result) {
	err := r.publishScenario(&report.ScenarioFinishedEvent{
		RunID:       runID,
		Order:       res.Order,
		Name:        res.Name,
		Status:      string(res.Status),
		FailureKind: string(res.Kind),
		Failures:    append(append([]string(nil), res.Failures...), res.Notes...),
		DependsOn:   res.DependsOn,
		Duration:    res.Duration,
		FinishedAt:  r.now(),
	})
	if err != nil {
		logger.Warn("failed to publish scenario result", zap.Int("order", res.Order), zap.Error(err))
	}
}
