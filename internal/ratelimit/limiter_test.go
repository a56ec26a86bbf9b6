package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, maxAttempts int64, window time.Duration, now time.Time) (*Limiter, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	limiter := NewWithClient(client, maxAttempts, window)
	limiter.now = func() time.Time { return now }

	return limiter, mock
}

func TestAllow(t *testing.T) {
	ctx := context.Background()

	const sessionID = "session-1"

	key := fmt.Sprintf("checkout_attempts:%s", sessionID)
	now := time.Unix(1_700_000_100, 0)
	window := time.Minute

	t.Run("Success - Under The Limit", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t, 5, window, now)

		windowStart := now.Unix() - int64(window.Seconds())
		mock.ExpectZRemRangeByScore(key, "0", fmt.Sprintf("%d", windowStart)).SetVal(0)
		mock.ExpectZAdd(key, redis.Z{Score: float64(now.Unix()), Member: now.Unix()}).SetVal(1)
		mock.ExpectZCard(key).SetVal(2)
		mock.ExpectExpire(key, window).SetVal(true)

		// Act
		allowed, remaining, retryAfter, err := limiter.Allow(ctx, sessionID)

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 3, remaining)
		assert.Zero(t, retryAfter)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Throttled - Limit Reached", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t, 3, window, now)

		windowStart := now.Unix() - int64(window.Seconds())
		oldest := now.Unix() - 40

		mock.ExpectZRemRangeByScore(key, "0", fmt.Sprintf("%d", windowStart)).SetVal(1)
		mock.ExpectZAdd(key, redis.Z{Score: float64(now.Unix()), Member: now.Unix()}).SetVal(1)
		mock.ExpectZCard(key).SetVal(3)
		mock.ExpectExpire(key, window).SetVal(true)
		mock.ExpectZRange(key, 0, 0).SetVal([]string{fmt.Sprintf("%d", oldest)})

		// Act
		allowed, _, retryAfter, err := limiter.Allow(ctx, sessionID)

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 20, retryAfter, "window is 60s and the oldest attempt is 40s old")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		limiter, mock := setup(t, 5, window, now)

		windowStart := now.Unix() - int64(window.Seconds())
		mock.ExpectZRemRangeByScore(key, "0", fmt.Sprintf("%d", windowStart)).
			SetErr(assert.AnError)

		// Act
		allowed, _, _, err := limiter.Allow(ctx, sessionID)

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}
