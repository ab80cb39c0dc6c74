package push

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const receiptCheckKey = "push:receipt_checks"

// RedisCheckStore persists pending receipt checks in a Redis sorted set,
// scored by due time. Checks survive process restarts; the worker binary
// polls Due and hands batches to the reconciler.
type RedisCheckStore struct {
	client *redis.Client
	delay  time.Duration
	logger zerolog.Logger
}

// NewRedisCheckStore creates the store. A non-positive delay falls back to
// the default.
func NewRedisCheckStore(client *redis.Client, delay time.Duration, logger zerolog.Logger) *RedisCheckStore {
	if delay <= 0 {
		delay = DefaultReceiptDelay
	}
	return &RedisCheckStore{
		client: client,
		delay:  delay,
		logger: logger,
	}
}

// Schedule enqueues the checks, stamping a due time on entries that lack one.
func (s *RedisCheckStore) Schedule(ctx context.Context, checks []PendingCheck) error {
	if len(checks) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(checks))
	for _, check := range checks {
		if check.DueAt.IsZero() {
			check.DueAt = time.Now().Add(s.delay)
		}

		encoded, err := json.Marshal(check)
		if err != nil {
			return err
		}

		members = append(members, redis.Z{
			Score:  float64(check.DueAt.Unix()),
			Member: encoded,
		})
	}

	return s.client.ZAdd(ctx, receiptCheckKey, members...).Err()
}

// Due claims up to limit checks whose due time has passed. Claimed entries
// are removed from the set; a crash between claim and reconciliation loses
// that batch, which costs at worst one delayed dead-token cleanup.
func (s *RedisCheckStore) Due(ctx context.Context, now time.Time, limit int64) ([]PendingCheck, error) {
	raw, err := s.client.ZRangeByScore(ctx, receiptCheckKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   formatScore(now),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	members := make([]interface{}, len(raw))
	for i, m := range raw {
		members[i] = m
	}
	if err := s.client.ZRem(ctx, receiptCheckKey, members...).Err(); err != nil {
		return nil, err
	}

	checks := make([]PendingCheck, 0, len(raw))
	for _, m := range raw {
		var check PendingCheck
		if err := json.Unmarshal([]byte(m), &check); err != nil {
			s.logger.Warn().Err(err).Msg("dropping undecodable receipt check")
			continue
		}
		checks = append(checks, check)
	}

	return checks, nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// Ensure RedisCheckStore implements CheckScheduler interface.
var _ CheckScheduler = (*RedisCheckStore)(nil)
