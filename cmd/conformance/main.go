package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/conformance"
	"github.com/serroba/shorturl-conformance/internal/container"
	"github.com/serroba/shorturl-conformance/internal/health"
	"github.com/serroba/shorturl-conformance/internal/messaging"
	"go.uber.org/zap"
)

const (
	exitOK              = 0
	exitFailed          = 1
	exitPreflightFailed = 2
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.BusPackage(injector)
	container.StorePackage(injector)
	container.ConsumersPackage(injector)
	container.HarnessPackage(injector)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read .env:", err)
	}

	exitCode := exitOK

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		hooks.OnStart(func() {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			exitCode = run(ctx, options)
		})
	})

	cli.Run()
	os.Exit(exitCode)
}

func run(ctx context.Context, options *container.Options) int {
	injector := do.New()
	registerPackages(injector, options)

	logger, err := do.Invoke[*zap.Logger](injector)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return exitFailed
	}
	defer func() { _ = logger.Sync() }()

	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.Error("service shutdown error", zap.Error(err))
		}
	}()

	if !options.SkipPreflight {
		if err := health.Preflight(ctx, container.PreflightChecks(injector)...); err != nil {
			logger.Error("preflight failed", zap.Error(err))

			return exitPreflightFailed
		}
	}

	bus, err := do.Invoke[*container.Bus](injector)
	if err != nil {
		logger.Error("failed to open result bus", zap.Error(err))

		return exitFailed
	}

	// Results are persisted here only when nothing else consumes them.
	if bus.Local {
		group, err := do.Invoke[*messaging.ConsumerGroup](injector)
		if err != nil {
			logger.Error("failed to create result consumers", zap.Error(err))

			return exitFailed
		}

		if err := group.Start(ctx); err != nil {
			logger.Error("failed to start result consumers", zap.Error(err))

			return exitFailed
		}
	}

	runner, err := do.Invoke[*conformance.Runner](injector)
	if err != nil {
		logger.Error("failed to create runner", zap.Error(err))

		return exitFailed
	}

	rep := runner.Run(ctx, container.NewSession(injector))
	printReport(rep)

	if !rep.OK() {
		return exitFailed
	}

	return exitOK
}

func printReport(rep *conformance.Report) {
	for _, res := range rep.Results {
		mark := "PASS"
		if !res.Passed() {
			mark = "FAIL"
		}

		fmt.Printf("%s %d %s (%s)\n", mark, res.Order, res.Name, res.Duration.Round(time.Millisecond))

		for _, f := range res.Failures {
			fmt.Printf("     %s: %s\n", res.Kind, f)
		}

		for _, n := range res.Notes {
			fmt.Printf("     note: %s\n", n)
		}
	}

	fmt.Printf("\n%d passed, %d failed against %s (run %s)\n", rep.Passed(), rep.Failed(), rep.BaseURL, rep.RunID)

	if len(rep.Leftovers) > 0 {
		fmt.Printf("left on the service: %v\n", rep.Leftovers)
	}
}
