package conformance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shorturl-conformance/internal/conformance"
	"github.com/serroba/shorturl-conformance/internal/report"
	"github.com/serroba/shorturl-conformance/internal/shorturl"
	"github.com/serroba/shorturl-conformance/internal/shorturltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func failedOrders(rep *conformance.Report) []int {
	var out []int

	for _, res := range rep.Results {
		if !res.Passed() {
			out = append(out, res.Order)
		}
	}

	return out
}

func TestNewRunner(t *testing.T) {
	t.Run("rejects a mis-ordered suite", func(t *testing.T) {
		scenarios := conformance.Scenarios()
		scenarios[0], scenarios[1] = scenarios[1], scenarios[0]

		_, err := conformance.NewRunner(scenarios, nil, nil, zap.NewNop())

		assert.ErrorIs(t, err, conformance.ErrScenarioOrder)
	})
}

func TestRunner_Run(t *testing.T) {
	t.Run("passes every scenario against a conforming service", func(t *testing.T) {
		session, _ := newSession(t)
		ev := &events{}

		runner, err := conformance.NewRunner(conformance.Scenarios(), ev.scenario, ev.run, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.True(t, rep.OK(), "failures: %+v", rep.Results)
		assert.Equal(t, 8, rep.Passed())
		assert.NotEmpty(t, rep.RunID)
		assert.Equal(t, session.Client.BaseURL(), rep.BaseURL)
		assert.Equal(t, []string{session.Fixtures.DifferentCode}, rep.Leftovers)

		require.Len(t, ev.scenarios, 8)
		require.Len(t, ev.runs, 1)

		for i, e := range ev.scenarios {
			assert.Equal(t, i+1, e.Order)
			assert.Equal(t, rep.RunID, e.RunID)
			assert.Equal(t, "passed", e.Status)
		}

		assert.Equal(t, 8, ev.runs[0].Passed)
		assert.Equal(t, 0, ev.runs[0].Failed)
	})

	t.Run("flags a service that does not count visits", func(t *testing.T) {
		session, _ := newSession(t, shorturltest.WithBehavior(shorturltest.Behavior{IgnoreVisits: true}))

		runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.Equal(t, []int{8}, failedOrders(rep))

		res, ok := rep.Result(8)
		require.True(t, ok)
		assert.Equal(t, conformance.FailureAssertion, res.Kind)
		require.NotEmpty(t, res.Failures)
		assert.Contains(t, res.Failures[0], "visits did not increase")
	})

	t.Run("flags a service that accepts duplicate codes", func(t *testing.T) {
		session, _ := newSession(t, shorturltest.WithBehavior(shorturltest.Behavior{AllowDuplicateCodes: true}))

		runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.Equal(t, []int{4, 6}, failedOrders(rep))

		res, _ := rep.Result(4)
		assert.Equal(t, conformance.FailureAssertion, res.Kind)
		assert.Contains(t, res.Failures[0], "duplicate short url was added")
	})

	t.Run("reports a non-conforming service by scenario", func(t *testing.T) {
		seldev := shorturltest.Seed{URL: "https://selenium.dev", Code: "seldev"}

		tests := []struct {
			name    string
			opts    []shorturltest.Option
			failed  []int
			message string
		}{
			{
				name:    "too few entries",
				opts:    []shorturltest.Option{shorturltest.WithSeeds(seldev)},
				failed:  []int{1},
				message: "fewer short URLs than were seeded",
			},
			{
				name: "seed code stored under another url",
				opts: []shorturltest.Option{shorturltest.WithSeeds(
					shorturltest.Seed{URL: "https://nakov.com", Code: "nak"},
					shorturltest.Seed{URL: "https://example.com", Code: "seldev"},
					shorturltest.Seed{URL: "https://softuni.bg", Code: "su"},
				)},
				failed:  []int{2},
				message: "original url is different",
			},
			{
				name: "wrong create message",
				opts: []shorturltest.Option{shorturltest.WithBehavior(shorturltest.Behavior{
					CreateMessage: "Created.",
				})},
				failed:  []int{3, 5},
				message: "short code was not added",
			},
			{
				name: "creates are not stored",
				opts: []shorturltest.Option{shorturltest.WithBehavior(shorturltest.Behavior{
					DropCreates: true,
				})},
				failed:  []int{3, 4, 5, 7},
				message: "new short code cannot be fetched",
			},
			{
				name: "delete message without the code",
				opts: []shorturltest.Option{shorturltest.WithBehavior(shorturltest.Behavior{
					DeleteMessage: "Deleted.",
				})},
				failed:  []int{7},
				message: "deleted short code is different",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				session, _ := newSession(t, tt.opts...)

				runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
				require.NoError(t, err)

				rep := runner.Run(context.Background(), session)

				assert.Equal(t, tt.failed, failedOrders(rep))

				for _, order := range tt.failed {
					res, _ := rep.Result(order)
					assert.Equal(t, conformance.FailureAssertion, res.Kind, "scenario %d", order)
				}

				first, _ := rep.Result(tt.failed[0])
				require.NotEmpty(t, first.Failures)
				assert.Contains(t, first.Failures[0], tt.message)
			})
		}
	})

	t.Run("reports the seed code as leftover when an unseeded service accepts it", func(t *testing.T) {
		session, fake := newSession(t, shorturltest.WithSeeds())

		runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.Equal(t, []int{1, 2, 6}, failedOrders(rep))
		assert.Equal(t, []string{session.Fixtures.DifferentCode, "seldev"}, rep.Leftovers)

		rec, err := fake.Store.Get("seldev")
		require.NoError(t, err)
		assert.Equal(t, session.Fixtures.DifferentURL, rec.URL)

		visit, _ := rep.Result(8)
		assert.Equal(t, []string{"depends on scenario 1, which failed"}, visit.Notes)
	})

	t.Run("reports an unreachable service as transport failures", func(t *testing.T) {
		ts, _ := shorturltest.Start(t)
		ts.Close()

		client := shorturl.NewClient(ts.URL, nil, zap.NewNop())
		session := conformance.NewSession(client, conformance.DefaultSeed(), conformance.Fixtures{
			UniqueURL: "https://a.com", DifferentURL: "https://b.com", UniqueCode: "a", DifferentCode: "b",
		})

		runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.Equal(t, 8, rep.Failed())

		for _, res := range rep.Results {
			assert.Equal(t, conformance.FailureTransport, res.Kind, "scenario %d", res.Order)
		}

		assert.Empty(t, rep.Leftovers)
	})

	t.Run("fails remaining scenarios once the context is cancelled", func(t *testing.T) {
		session, _ := newSession(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runner, err := conformance.NewRunner(conformance.Scenarios(), nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(ctx, session)

		assert.Equal(t, 8, rep.Failed())
		res, _ := rep.Result(1)
		assert.Equal(t, conformance.FailureTransport, res.Kind)
	})

	t.Run("notes failed dependencies and keeps going", func(t *testing.T) {
		session, _ := newSession(t)

		var ran []int

		scenarios := []conformance.Scenario{
			{Order: 1, Name: "fails", Run: func(_ context.Context, t conformance.TB, _ *conformance.Session) {
				ran = append(ran, 1)
				require.Equal(t, 1, 2, "numbers differ")
				ran = append(ran, 99)
			}},
			{Order: 2, Name: "depends", DependsOn: []int{1}, Run: func(_ context.Context, _ conformance.TB, _ *conformance.Session) {
				ran = append(ran, 2)
			}},
		}

		runner, err := conformance.NewRunner(scenarios, nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.Equal(t, []int{1, 2}, ran)

		first, _ := rep.Result(1)
		assert.Equal(t, conformance.StatusFailed, first.Status)
		require.Len(t, first.Failures, 1)
		assert.Contains(t, first.Failures[0], "Not equal")
		assert.Contains(t, first.Failures[0], "numbers differ")
		assert.NotContains(t, first.Failures[0], "Error Trace")

		second, _ := rep.Result(2)
		assert.True(t, second.Passed())
		assert.Equal(t, []string{"depends on scenario 1, which failed"}, second.Notes)
	})

	t.Run("turns a panic into a failure", func(t *testing.T) {
		session, _ := newSession(t)

		scenarios := []conformance.Scenario{
			{Order: 1, Name: "panics", Run: func(_ context.Context, _ conformance.TB, _ *conformance.Session) {
				panic("boom")
			}},
		}

		runner, err := conformance.NewRunner(scenarios, nil, nil, zap.NewNop())
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		res, _ := rep.Result(1)
		assert.Equal(t, []string{"panic: boom"}, res.Failures)
		assert.Equal(t, conformance.FailureAssertion, res.Kind)
	})

	t.Run("logs publish failures without failing the run", func(t *testing.T) {
		session, _ := newSession(t)
		core, logs := observer.New(zap.WarnLevel)

		failing := func(_ *report.ScenarioFinishedEvent) error { return errors.New("bus down") }

		runner, err := conformance.NewRunner(conformance.Scenarios(), failing, nil, zap.New(core))
		require.NoError(t, err)

		rep := runner.Run(context.Background(), session)

		assert.True(t, rep.OK())
		assert.Equal(t, 8, logs.FilterMessage("failed to publish scenario result").Len())
	})
}
