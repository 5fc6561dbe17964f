// Package breaker 提供了熔断器组件，专注于上游政府 API 的故障隔离与自动恢复。
//
// breaker 是 govlink 治理层的核心组件，它提供了：
// - 基于滚动窗口统计的三态熔断器实现（Closed / Open / HalfOpen）
// - 按结果类型细分的统计计数（fires / successes / failures / timeouts / rejects）
// - 最小请求量门槛（VolumeThreshold），避免单次失败触发熔断
// - 自动故障隔离和自动恢复（冷却期后通过半开状态放行一次探测请求）
// - 无需外部触发的半开切换：仅凭时间流逝即可通过 State() 观察到 HalfOpen
//
// ## 基本使用
//
//	brk, _ := breaker.New(&breaker.Config{
//		Name:                     "pncp",
//		ErrorThresholdPercentage: 50,
//		VolumeThreshold:          10,
//		ResetTimeout:             30 * time.Second,
//	}, breaker.WithLogger(logger))
//
//	err := brk.Execute(ctx, func(ctx context.Context) error {
//		return callUpstream(ctx)
//	})
//	if errors.Is(err, breaker.ErrOpenState) {
//		// 熔断中，快速失败
//	}
//
// ## 状态观测
//
//	snap := brk.Snapshot()
//	if snap.Opened {
//		// 上游不可用，跳过调用
//	}
package breaker

import (
	"context"
	"time"

	"github.com/ceyewan/govlink/clog"
)

// Breaker 熔断器核心接口
type Breaker interface {
	// Execute 执行受熔断保护的函数
	//
	// Open 状态下立即返回 ErrOpenState，不会调用 fn。
	// fn 的返回错误按类型计入统计：context.DeadlineExceeded 计为超时，
	// 其余非 nil 错误计为失败。
	Execute(ctx context.Context, fn func(ctx context.Context) error) error

	// State 获取熔断器当前状态
	//
	// 冷却期结束后，即使没有任何调用，State 也会返回 StateHalfOpen。
	State() State

	// Snapshot 获取状态快照（状态标志 + 当前窗口统计）
	// 只读、无副作用，适合健康检查端点使用
	Snapshot() Snapshot

	// Reset 手动重置熔断器状态为 Closed，用于运维场景的强制恢复
	Reset()
}

// State 熔断器状态
type State int

const (
	// StateClosed 闭合状态（正常），请求正常通过
	StateClosed State = iota
	// StateOpen 打开状态（熔断中），请求快速失败
	StateOpen
	// StateHalfOpen 半开状态（探测恢复），放行一次探测请求
	StateHalfOpen
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Stats 当前滚动窗口内的统计计数
type Stats struct {
	// Fires 放行到上游的调用总数（不含被拒绝的调用）
	Fires uint64 `json:"fires"`
	// Successes 成功次数
	Successes uint64 `json:"successes"`
	// Failures 失败次数（不含超时）
	Failures uint64 `json:"failures"`
	// Timeouts 超时次数
	Timeouts uint64 `json:"timeouts"`
	// Rejects 因熔断打开而被拒绝的次数，仅在 Open 状态下递增
	Rejects uint64 `json:"rejects"`
}

// Snapshot 熔断器状态快照
//
// 三个状态标志互斥，任一时刻恰好一个为 true。
type Snapshot struct {
	Closed   bool  `json:"closed"`
	Opened   bool  `json:"opened"`
	HalfOpen bool  `json:"halfOpen"`
	Stats    Stats `json:"stats"`
}

// New 创建熔断器实例
//
// 参数:
//   - cfg: 熔断器配置，Name 通常为上游来源标识（如 "pncp"）
//   - opts: 可选参数 (Logger, Meter, Clock)
func New(cfg *Config, opts ...Option) (Breaker, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{now: time.Now}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}
	logger = logger.With(clog.String("breaker", cfg.Name))

	return newBreaker(cfg, logger, opt.meter, opt.now)
}
