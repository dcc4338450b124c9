package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// NewLogger builds a zap logger for format "json" or "console".
func NewLogger(format string) (*zap.Logger, error) {
	switch format {
	case "json":
		return zap.NewProduction()
	case "console", "":
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat)
	})
}

// Redis owns the shared Redis client.
type Redis struct {
	Client *redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Client.Close()
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return nil, errors.New("redis address is not configured")
		}

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// Postgres owns the connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

func (p *Postgres) Shutdown() error {
	p.Pool.Close()

	return nil
}

func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return nil, errors.New("database url is not configured")
		}

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return &Postgres{Pool: pool}, nil
	})
}
