package conformance_test

import (
	"testing"

	"github.com/serroba/shorturl-conformance/internal/conformance"
	"github.com/serroba/shorturl-conformance/internal/report"
	"github.com/serroba/shorturl-conformance/internal/shorturl"
	"github.com/serroba/shorturl-conformance/internal/shorturltest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T, opts ...shorturltest.Option) (*conformance.Session, *shorturltest.Server) {
	t.Helper()

	ts, fake := shorturltest.Start(t, opts...)

	gen, err := conformance.NewGenerator(conformance.DefaultFixturePrefix)
	require.NoError(t, err)

	client := shorturl.NewClient(ts.URL, ts.Client(), zap.NewNop())

	return conformance.NewSession(client, conformance.DefaultSeed(), gen.Fixtures()), fake
}

// events captures everything a runner publishes.
type events struct {
	scenarios []report.ScenarioFinishedEvent
	runs      []report.RunFinishedEvent
}

func (e *events) scenario(ev *report.ScenarioFinishedEvent) error {
	e.scenarios = append(e.scenarios, *ev)

	return nil
}

func (e *events) run(ev *report.RunFinishedEvent) error {
	e.runs = append(e.runs, *ev)

	return nil
}
