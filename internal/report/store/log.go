package store

import (
	"context"

	"github.com/serroba/shorturl-conformance/internal/report"
	"go.uber.org/zap"
)

// Log is a report.Store that only writes results to the logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging result store.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) SaveScenario(_ context.Context, event *report.ScenarioFinishedEvent) error {
	fields := []zap.Field{
		zap.String("runId", event.RunID),
		zap.Int("order", event.Order),
		zap.String("scenario", event.Name),
		zap.String("status", event.Status),
		zap.Duration("duration", event.Duration),
	}

	if event.FailureKind != "" {
		fields = append(fields,
			zap.String("failureKind", event.FailureKind),
			zap.Strings("failures", event.Failures),
		)
	}

	l.logger.Info("scenario result stored", fields...)

	return nil
}

func (l *Log) SaveRun(_ context.Context, event *report.RunFinishedEvent) error {
	l.logger.Info("run result stored",
		zap.String("runId", event.RunID),
		zap.String("baseUrl", event.BaseURL),
		zap.Int("passed", event.Passed),
		zap.Int("failed", event.Failed),
		zap.Duration("elapsed", event.FinishedAt.Sub(event.StartedAt)),
	)

	return nil
}

var _ report.Store = (*Log)(nil)
