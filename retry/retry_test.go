package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ceyewan/govlink/breaker"
	"github.com/ceyewan/govlink/transport"
)

func transientErr() error {
	return &transport.TransportError{Path: "/v1/test", Cause: context.DeadlineExceeded}
}

func TestInvalidPolicy(t *testing.T) {
	err := Do(context.Background(), Policy{MaxRetries: -1}, func(ctx context.Context) error {
		t.Fatal("fn should not be called with invalid policy")
		return nil
	})
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestZeroMaxRetriesDisablesRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 0}, func(ctx context.Context) error {
		calls++
		return transientErr()
	})
	require.Error(t, err)
	require.Equal(t, 1, calls, "MaxRetries 为 0 时 fn 只应执行一次")
}

func TestRetriesTransientFailure(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, Multiplier: 2}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		return transientErr()
	})

	var transportErr *transport.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 4, calls, "首次调用 + 3 次重试")
}

func TestSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 5, InitialBackoff: time.Millisecond, Multiplier: 2}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return transientErr()
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestNoRetryOnHTTPError(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, InitialBackoff: time.Millisecond}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		return &transport.HTTPError{StatusCode: 500, Path: "/v1/test"}
	})

	var httpErr *transport.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, 1, calls, "上游明确答复的 HTTP 错误不应重试")
}

func TestNoRetryOnOpenBreaker(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, InitialBackoff: time.Millisecond}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		return breaker.ErrOpenState
	})
	require.ErrorIs(t, err, breaker.ErrOpenState)
	require.Equal(t, 1, calls, "熔断拒绝不应重试")
}

func TestBackoffGrowthAndCap(t *testing.T) {
	p := Policy{
		MaxRetries:     3,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
		Multiplier:     2,
		Jitter:         false,
	}

	start := time.Now()
	err := Do(context.Background(), p, func(ctx context.Context) error {
		return transientErr()
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// 等待序列为 10ms, 20ms, 20ms（被 MaxBackoff 截断），共约 50ms
	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	require.Less(t, elapsed, 500*time.Millisecond)
}

func TestContextCancelInterruptsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxRetries: 3, InitialBackoff: 10 * time.Second}

	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Do(ctx, p, func(ctx context.Context) error {
		calls++
		return transientErr()
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Less(t, elapsed, time.Second, "取消应立即打断退避等待")
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, 3, p.MaxRetries)
	require.Equal(t, 100*time.Millisecond, p.InitialBackoff)
	require.Equal(t, 5*time.Second, p.MaxBackoff)
	require.Equal(t, float64(2), p.Multiplier)
	require.True(t, p.Jitter)
}
