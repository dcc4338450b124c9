package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/health"
)

// HTTPPackage provides the reporter's router with its health endpoint.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("Conformance Reporter", "1.0.0"))

		checks := []health.Check{
			{Name: "redis", Checker: health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)},
		}

		if opts.DatabaseURL != "" {
			checks = append(checks, health.Check{Name: "postgres", Checker: do.MustInvoke[*Postgres](i).Pool})
		}

		health.RegisterRoutes(api, health.NewHandler(checks...))

		return api, nil
	})
}
