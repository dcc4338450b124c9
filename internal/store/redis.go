package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-conformance/internal/report"
)

// RedisStore keeps results in Redis:
//
//	conformance:runs                  sorted set of run ids scored by finish time
//	conformance:run:<id>              hash with the run summary
//	conformance:run:<id>:scenarios    hash of scenario order -> JSON result
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed result store. A ttl of zero keeps results forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "conformance:",
		ttl:    ttl,
	}
}

func (r *RedisStore) runsKey() string {
	return r.prefix + "runs"
}

func (r *RedisStore) runKey(runID string) string {
	return r.prefix + "run:" + runID
}

func (r *RedisStore) scenariosKey(runID string) string {
	return r.runKey(runID) + ":scenarios"
}

func (r *RedisStore) SaveScenario(ctx context.Context, event *report.ScenarioFinishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := r.scenariosKey(event.RunID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, strconv.Itoa(event.Order), payload)

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, err = pipe.Exec(ctx)

	return err
}

func (r *RedisStore) SaveRun(ctx context.Context, event *report.RunFinishedEvent) error {
	key := r.runKey(event.RunID)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"base_url":    event.BaseURL,
		"started_at":  event.StartedAt.UnixNano(),
		"finished_at": event.FinishedAt.UnixNano(),
		"passed":      event.Passed,
		"failed":      event.Failed,
	})
	pipe.ZAdd(ctx, r.runsKey(), redis.Z{
		Score:  float64(event.FinishedAt.UnixMilli()),
		Member: event.RunID,
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
		// Runs whose hashes have expired leave the index too.
		cutoff := event.FinishedAt.Add(-r.ttl).UnixMilli()
		pipe.ZRemRangeByScore(ctx, r.runsKey(), "-inf", "("+strconv.FormatInt(cutoff, 10))
	}

	_, err := pipe.Exec(ctx)

	return err
}

// LatestRunID returns the id of the most recently finished run.
func (r *RedisStore) LatestRunID(ctx context.Context) (string, error) {
	ids, err := r.client.ZRevRange(ctx, r.runsKey(), 0, 0).Result()
	if err != nil {
		return "", err
	}

	if len(ids) == 0 {
		return "", ErrNotFound
	}

	return ids[0], nil
}

// Run reads back a stored run.
func (r *RedisStore) Run(ctx context.Context, runID string) (*RunRecord, error) {
	summary, err := r.client.HGetAll(ctx, r.runKey(runID)).Result()
	if err != nil {
		return nil, err
	}

	if len(summary) == 0 {
		return nil, ErrNotFound
	}

	run := &report.RunFinishedEvent{
		RunID:   runID,
		BaseURL: summary["base_url"],
	}

	if run.StartedAt, err = parseNanos(summary["started_at"]); err != nil {
		return nil, err
	}

	if run.FinishedAt, err = parseNanos(summary["finished_at"]); err != nil {
		return nil, err
	}

	if run.Passed, err = strconv.Atoi(summary["passed"]); err != nil {
		return nil, fmt.Errorf("parse passed count of run %s: %w", runID, err)
	}

	if run.Failed, err = strconv.Atoi(summary["failed"]); err != nil {
		return nil, fmt.Errorf("parse failed count of run %s: %w", runID, err)
	}

	raw, err := r.client.HGetAll(ctx, r.scenariosKey(runID)).Result()
	if err != nil {
		return nil, err
	}

	rec := &RunRecord{Run: run}

	for field, payload := range raw {
		var event report.ScenarioFinishedEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("decode scenario %s of run %s: %w", field, runID, err)
		}

		rec.Scenarios = append(rec.Scenarios, &event)
	}

	sort.Slice(rec.Scenarios, func(i, j int) bool {
		return rec.Scenarios[i].Order < rec.Scenarios[j].Order
	})

	return rec, nil
}

func parseNanos(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}

	return time.Unix(0, n), nil
}

var _ report.Store = (*RedisStore)(nil)
