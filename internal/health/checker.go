package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-conformance/internal/shorturl"
)

var ErrServiceUnhealthy = errors.New("service under test is unhealthy")

// Checker defines the interface for checking a dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

// Check names a checker.
type Check struct {
	Name    string
	Checker Checker
}

// RedisChecker adapts a redis client to Checker.
type RedisChecker struct {
	client redis.UniversalClient
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client redis.UniversalClient) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// ServiceChecker probes the short-URL service by listing its entries.
type ServiceChecker struct {
	client *shorturl.Client
}

func NewServiceChecker(client *shorturl.Client) *ServiceChecker {
	return &ServiceChecker{client: client}
}

// Ping fails when the service cannot be reached or answers with a 5xx.
func (s *ServiceChecker) Ping(ctx context.Context) error {
	resp, err := s.client.List(ctx)
	if err != nil {
		return err
	}

	if resp.Status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrServiceUnhealthy, resp.Status)
	}

	return nil
}

// Preflight runs every check and joins the failures.
func Preflight(ctx context.Context, checks ...Check) error {
	var errs []error

	for _, c := range checks {
		if err := c.Checker.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}

	return errors.Join(errs...)
}
