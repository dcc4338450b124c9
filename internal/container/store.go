package container

import (
	"context"
	"time"

	"github.com/samber/do"
	"github.com/serroba/shorturl-conformance/internal/report"
	logstore "github.com/serroba/shorturl-conformance/internal/report/store"
	"github.com/serroba/shorturl-conformance/internal/store"
	"go.uber.org/zap"
)

const redisResultTTL = 7 * 24 * time.Hour

// StorePackage provides the result store: PostgreSQL when a database URL is
// set, otherwise Redis when an address is set, otherwise memory. Every result
// is logged as well.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})

	do.Provide(i, func(i *do.Injector) (report.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var primary report.Store

		switch {
		case opts.DatabaseURL != "":
			pg := store.NewPostgresStore(do.MustInvoke[*Postgres](i).Pool)
			if err := pg.EnsureSchema(context.Background()); err != nil {
				return nil, err
			}

			primary = pg
		case opts.RedisAddr != "":
			primary = store.NewRedisStore(do.MustInvoke[*Redis](i).Client, redisResultTTL)
		default:
			primary = do.MustInvoke[*store.MemoryStore](i)
		}

		return report.Tee(logstore.NewLog(logger), primary), nil
	})
}
