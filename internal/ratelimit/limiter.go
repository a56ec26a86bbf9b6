package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantmart/storefront-gateway/internal/config"
)

// Limiter is a sliding-window counter over checkout attempts, keyed per
// session. It exists to blunt accidental rapid resubmission, not to be
// a security boundary; the backend stays the source of truth.
type Limiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	now         func() time.Time
}

func New(cfg *config.Config) (*Limiter, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, cfg.RateConfig.MaxAttempts, cfg.RateConfig.WindowSize), nil
}

func NewWithClient(client *redis.Client, maxAttempts int64, window time.Duration) *Limiter {
	return &Limiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Allow returns whether another attempt may proceed, the attempts left,
// and the seconds to wait when throttled.
func (l *Limiter) Allow(ctx context.Context, sessionID string) (bool, int, int, error) {

	key := fmt.Sprintf("checkout_attempts:%s", sessionID)

	now := l.now().Unix()

	// Attempts before 'this time' have aged out of the window.
	windowStart := now - int64(l.window.Seconds())

	pipe := l.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	attempts := count.Val()
	remaining := l.maxAttempts - attempts

	if attempts >= l.maxAttempts {
		oldest, err := l.client.ZRange(ctx, key, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return false, 0, 0, err
		}

		oldestTime, err := strconv.ParseInt(oldest[0], 10, 64)
		if err != nil {
			return false, 0, 0, err
		}

		retryAfter := int64(l.window.Seconds()) - (now - oldestTime)

		return false, 0, int(retryAfter), nil
	}

	return true, int(remaining), 0, nil
}
