package container_test

import (
	"context"
	"testing"

	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/container"
	"github.com/serroba/shorturl-conformance/internal/conformance"
	"github.com/serroba/shorturl-conformance/internal/health"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"github.com/serroba/shorturl-conformance/internal/shorturltest"
	"github.com/serroba/shorturl-conformance/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInjector(t *testing.T, opts *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	do.ProvideValue(injector, zap.NewNop())
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.BusPackage(injector)
	container.StorePackage(injector)
	container.ConsumersPackage(injector)
	container.HarnessPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func localOptions(baseURL string) *container.Options {
	return &container.Options{
		BaseURL:       baseURL,
		SeedCode:      "seldev",
		SeedURL:       "https://selenium.dev",
		SeedCount:     3,
		FixturePrefix: "shami",
		Timeout:       5,
		LogFormat:     "console",
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("builds console and json loggers", func(t *testing.T) {
		for _, format := range []string{"console", "json", ""} {
			logger, err := container.NewLogger(format)
			require.NoError(t, err, format)
			assert.NotNil(t, logger)
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := container.NewLogger("xml")

		assert.Error(t, err)
	})
}

func TestInProcessRun(t *testing.T) {
	ts, _ := shorturltest.Start(t)
	injector := newInjector(t, localOptions(ts.URL))

	bus := do.MustInvoke[*container.Bus](injector)
	require.True(t, bus.Local)

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)
	require.NoError(t, group.Start(context.Background()))

	checks := container.PreflightChecks(injector)
	require.Len(t, checks, 1)
	require.NoError(t, health.Preflight(context.Background(), checks...))

	runner := do.MustInvoke[*conformance.Runner](injector)
	rep := runner.Run(context.Background(), container.NewSession(injector))

	require.True(t, rep.OK(), "failures: %+v", rep.Results)

	record, err := do.MustInvoke[*store.MemoryStore](injector).Latest()
	require.NoError(t, err)
	assert.Equal(t, rep.RunID, record.Run.RunID)
	assert.Equal(t, 8, record.Run.Passed)
	assert.Len(t, record.Scenarios, 8)
}

func TestRedisPackage(t *testing.T) {
	t.Run("fails without an address", func(t *testing.T) {
		injector := newInjector(t, localOptions("http://localhost:1"))

		_, err := do.Invoke[*container.Redis](injector)

		assert.Error(t, err)
	})
}
