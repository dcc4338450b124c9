package container

import (
	"net/http"
	"time"

	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/conformance"
	"github.com/serroba/shorturl-conformance/internal/health"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"github.com/serroba/shorturl-conformance/internal/report"
	"github.com/serroba/shorturl-conformance/internal/shorturl"
	"go.uber.org/zap"
)

// HarnessPackage provides the service client, the fixture generator and the
// runner publishing onto the bus.
func HarnessPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shorturl.Client, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		httpClient := &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}

		return shorturl.NewClient(opts.BaseURL, httpClient, logger), nil
	})

	do.Provide(i, func(i *do.Injector) (*conformance.Generator, error) {
		return conformance.NewGenerator(do.MustInvoke[*Options](i).FixturePrefix)
	})

	do.Provide(i, func(i *do.Injector) (*conformance.Runner, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		bus := do.MustInvoke[*Bus](i)

		return conformance.NewRunner(
			conformance.Scenarios(),
			messaging.NewPublishFunc[report.ScenarioFinishedEvent](bus.Publisher, report.TopicScenarioFinished),
			messaging.NewPublishFunc[report.RunFinishedEvent](bus.Publisher, report.TopicRunFinished),
			logger,
		)
	})
}

// NewSession starts a run with fresh fixtures.
func NewSession(i *do.Injector) *conformance.Session {
	opts := do.MustInvoke[*Options](i)

	seed := conformance.Seed{
		Code:       opts.SeedCode,
		URL:        opts.SeedURL,
		MinEntries: opts.SeedCount,
	}

	return conformance.NewSession(
		do.MustInvoke[*shorturl.Client](i),
		seed,
		do.MustInvoke[*conformance.Generator](i).Fixtures(),
	)
}

// PreflightChecks lists what must be reachable before a run.
func PreflightChecks(i *do.Injector) []health.Check {
	opts := do.MustInvoke[*Options](i)

	checks := []health.Check{
		{Name: "service", Checker: health.NewServiceChecker(do.MustInvoke[*shorturl.Client](i))},
	}

	if opts.RedisAddr != "" {
		checks = append(checks, health.Check{
			Name:    "redis",
			Checker: health.NewRedisChecker(do.MustInvoke[*Redis](i).Client),
		})
	}

	if opts.DatabaseURL != "" {
		checks = append(checks, health.Check{Name: "postgres", Checker: do.MustInvoke[*Postgres](i).Pool})
	}

	return checks
}
