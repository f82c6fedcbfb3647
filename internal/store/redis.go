package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jobpilot/internal/config"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/pkg/models"
)

// RedisStore persists application outcomes and daily counters in Redis
type RedisStore struct {
	client *redis.Client
	config *config.Config
	logger types.Logger
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisStore{
		client: redis.NewClient(opts),
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// SaveOutcome records an outcome keyed on (user, platform, job). SETNX
// keeps the first record when the same job is attempted twice; the daily
// counter only moves for outcomes that consume application budget.
func (r *RedisStore) SaveOutcome(ctx context.Context, outcome *models.ApplicationOutcome) (bool, error) {
	if outcome.AppliedAt.IsZero() {
		outcome.AppliedAt = time.Now()
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		return false, fmt.Errorf("failed to marshal outcome: %w", err)
	}

	key := outcomeKey(outcome.UserID, outcome.Platform, outcome.PlatformJobID)
	inserted, err := r.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to save outcome: %w", err)
	}
	if !inserted {
		r.logger.Debug("Outcome already recorded for job", map[string]interface{}{
			"user_id": outcome.UserID,
			"job_id":  outcome.PlatformJobID,
		})
		return false, nil
	}

	if outcome.Status.CountsTowardCap() {
		if err := r.bumpDailyCount(ctx, outcome.UserID); err != nil {
			r.logger.Warn("Failed to bump daily application counter", map[string]interface{}{
				"user_id": outcome.UserID,
				"error":   err.Error(),
			})
		}
	}
	return true, nil
}

// HasApplied reports whether an outcome exists for the job
func (r *RedisStore) HasApplied(ctx context.Context, userID, platform, platformJobID string) (bool, error) {
	exists, err := r.client.Exists(ctx, outcomeKey(userID, platform, platformJobID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check outcome existence: %w", err)
	}
	return exists > 0, nil
}

// CountToday returns the user's application count since local midnight
func (r *RedisStore) CountToday(ctx context.Context, userID string) (int, error) {
	value, err := r.client.Get(ctx, dailyKey(userID, time.Now())).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read daily counter: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt daily counter %q: %w", value, err)
	}
	return count, nil
}

// bumpDailyCount increments the per-day counter, expiring it after the day
// rolls over
func (r *RedisStore) bumpDailyCount(ctx context.Context, userID string) error {
	now := time.Now()
	key := dailyKey(userID, now)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
		if err := r.client.ExpireAt(ctx, key, midnight).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisStore) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func outcomeKey(userID, platform, jobID string) string {
	return fmt.Sprintf("outcome:%s:%s:%s", userID, platform, jobID)
}

func dailyKey(userID string, day time.Time) string {
	return fmt.Sprintf("applied:%s:%s", userID, day.Format("2006-01-02"))
}
