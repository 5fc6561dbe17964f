// Package retry 提供面向瞬时失败的指数退避重试。
//
// retry 只重试瞬时失败（超时、连接级错误），对上游明确返回的 HTTP
// 错误和熔断器拒绝一律不重试：上游已经给出了确定性答复，重复发送
// 只会放大压力。
//
// ## 基本使用
//
//	policy := retry.DefaultPolicy()
//	err := retry.Do(ctx, policy, func(ctx context.Context) error {
//		return doCall(ctx)
//	})
//
// MaxRetries 为 0 时完全禁用重试，fn 只执行一次。
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/ceyewan/govlink/breaker"
	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/transport"
	"github.com/ceyewan/govlink/xerrors"
)

// ErrInvalidPolicy 重试策略参数非法
var ErrInvalidPolicy = xerrors.New("retry: invalid policy")

// Policy 重试策略
//
// 零值策略等价于禁用重试。各字段留零时由 validate 填充默认值
// （MaxRetries 除外，0 表示明确禁用）。
type Policy struct {
	// MaxRetries 首次调用之外的最大重试次数，0 表示禁用重试
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// InitialBackoff 首次重试前的等待时间，默认 100ms
	InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff" mapstructure:"initial_backoff"`

	// MaxBackoff 单次等待上限，默认 5s
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff" mapstructure:"max_backoff"`

	// Multiplier 每次重试等待时间的增长倍数，默认 2
	Multiplier float64 `json:"multiplier" yaml:"multiplier" mapstructure:"multiplier"`

	// Jitter 是否在等待时间上叠加随机抖动，避免重试风暴同步
	Jitter bool `json:"jitter" yaml:"jitter" mapstructure:"jitter"`
}

// DefaultPolicy 返回适合调用政府 API 的默认重试策略
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// validate 校验策略并设置默认值（内部方法）
func (p *Policy) validate() error {
	if p.MaxRetries < 0 {
		return ErrInvalidPolicy
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = 100 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 5 * time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	return nil
}

// Option 重试选项函数
type Option func(*options)

// options 重试选项配置（内部使用）
type options struct {
	logger clog.Logger
}

// WithLogger 设置 Logger，用于记录每次重试的原因和等待时间
// 内部会自动添加 namespace: "retry"
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("retry")
		}
	}
}

// Do 按策略执行 fn，瞬时失败时重试
//
// 重试判定规则：
//   - *transport.TimeoutError / *transport.TransportError: 重试
//   - *transport.HTTPError: 不重试，上游已明确答复
//   - breaker.ErrOpenState: 不重试，熔断期间重试毫无意义
//   - ctx 取消或超时: 立即返回，等待中的退避也会被打断
//
// 返回最后一次尝试的错误。
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, opts ...Option) error {
	if err := p.validate(); err != nil {
		return err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}

	var err error
	backoff := p.InitialBackoff

	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !shouldRetry(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		wait := backoff
		if p.Jitter {
			// [0.5, 1.0) 倍随机抖动，避免多个客户端同步重试
			wait = time.Duration(float64(wait) * (0.5 + rand.Float64()/2))
		}

		logger.Info("retrying after transient failure",
			clog.Int("attempt", attempt+1),
			clog.Int("max_retries", p.MaxRetries),
			clog.Duration("wait", wait),
			clog.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
}

// shouldRetry 判断错误是否为可重试的瞬时失败（内部函数）
func shouldRetry(err error) bool {
	if xerrors.Is(err, breaker.ErrOpenState) {
		return false
	}
	if xerrors.Is(err, context.Canceled) {
		return false
	}
	return transport.IsTransient(err)
}
