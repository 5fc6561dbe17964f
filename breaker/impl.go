package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
	"github.com/ceyewan/govlink/xerrors"
)

// phase 熔断器内部阶段（内部使用）
//
// 使用单一枚举值而非多个布尔标志，保证任一时刻只可能处于一个阶段，
// 杜绝 closed 与 opened 同时为 true 的竞态类缺陷。
type phase int

const (
	phaseClosed phase = iota
	phaseOpen
	phaseHalfOpen
)

// circuitBreaker 熔断器实现（非导出）
type circuitBreaker struct {
	cfg    *Config
	logger clog.Logger
	now    func() time.Time

	stateChanges metrics.Counter
	rejectsTotal metrics.Counter
	outcomes     metrics.Counter

	// mu 串行化所有状态读取与迁移：
	// 判定迁移条件与提交迁移之间不存在任何挂起点，
	// 两个并发调用不可能同时判定并各自触发一次 "opened" 事件。
	mu       sync.Mutex
	phase    phase
	openedAt time.Time
	probing  bool // 半开状态下是否已有探测请求在途
	window   *rollingWindow
}

// newBreaker 创建熔断器实例（内部函数）
// 注意：cfg 已在 New() 中调用 validate() 设置了默认值
func newBreaker(cfg *Config, logger clog.Logger, meter metrics.Meter, now func() time.Time) (Breaker, error) {
	cb := &circuitBreaker{
		cfg:    cfg,
		logger: logger,
		now:    now,
		phase:  phaseClosed,
		window: newRollingWindow(cfg.WindowSize, cfg.WindowBuckets, now),
	}

	if meter != nil {
		var err error
		if cb.stateChanges, err = meter.Counter(MetricStateChanges, "Circuit breaker state changes"); err != nil {
			return nil, xerrors.Wrap(err, "breaker: create state change counter")
		}
		if cb.rejectsTotal, err = meter.Counter(MetricRejectsTotal, "Requests rejected while circuit is open"); err != nil {
			return nil, xerrors.Wrap(err, "breaker: create reject counter")
		}
		if cb.outcomes, err = meter.Counter(MetricOutcomesTotal, "Call outcomes by kind"); err != nil {
			return nil, xerrors.Wrap(err, "breaker: create outcome counter")
		}
	}

	logger.Info("circuit breaker created",
		clog.Float64("error_threshold_percentage", cfg.ErrorThresholdPercentage),
		clog.Uint64("volume_threshold", cfg.VolumeThreshold),
		clog.Duration("reset_timeout", cfg.ResetTimeout),
		clog.Duration("window_size", cfg.WindowSize))

	return cb, nil
}

// Execute 执行受熔断保护的函数
func (cb *circuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	isProbe := false

	cb.mu.Lock()
	cb.refreshLocked()

	switch cb.phase {
	case phaseOpen:
		// rejects 仅在 Open 状态下递增
		cb.window.recordReject()
		cb.mu.Unlock()

		cb.logger.Warn("request rejected, circuit breaker is open")
		if cb.rejectsTotal != nil {
			cb.rejectsTotal.Inc(ctx, metrics.L(LabelName, cb.cfg.Name))
		}
		return ErrOpenState

	case phaseHalfOpen:
		if cb.probing {
			// 半开状态只放行一个探测请求，其余调用快速失败
			cb.mu.Unlock()
			return ErrOpenState
		}
		cb.probing = true
		isProbe = true
		cb.window.recordFire()

	default: // phaseClosed
		cb.window.recordFire()
	}
	cb.mu.Unlock()

	err := fn(ctx)

	cb.mu.Lock()
	cb.afterCallLocked(isProbe, err)
	cb.mu.Unlock()

	if cb.outcomes != nil {
		cb.outcomes.Inc(ctx,
			metrics.L(LabelName, cb.cfg.Name),
			metrics.L(metrics.LabelOutcome, outcomeLabel(err)))
	}

	return err
}

// State 获取熔断器当前状态
func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.refreshLocked()

	switch cb.phase {
	case phaseOpen:
		return StateOpen
	case phaseHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Snapshot 获取状态快照
func (cb *circuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.refreshLocked()

	return Snapshot{
		Closed:   cb.phase == phaseClosed,
		Opened:   cb.phase == phaseOpen,
		HalfOpen: cb.phase == phaseHalfOpen,
		Stats:    cb.window.snapshot(),
	}
}

// Reset 手动重置熔断器状态为 Closed
func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionLocked(phaseClosed, "manual reset")
}

// refreshLocked 冷却期结束后将 Open 提升为 HalfOpen
//
// 该迁移只依赖时间流逝，不需要任何调用触发，
// 因此 State()/Snapshot() 也能观察到 HalfOpen。
// 必须持有 cb.mu 调用。
func (cb *circuitBreaker) refreshLocked() {
	if cb.phase == phaseOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.ResetTimeout {
		cb.transitionLocked(phaseHalfOpen, "reset timeout elapsed")
	}
}

// afterCallLocked 记录调用结果并执行状态迁移
// 必须持有 cb.mu 调用。
func (cb *circuitBreaker) afterCallLocked(isProbe bool, err error) {
	switch {
	case err == nil:
		cb.window.recordSuccess()
	case xerrors.Is(err, context.DeadlineExceeded):
		cb.window.recordTimeout()
	default:
		cb.window.recordFailure()
	}

	if isProbe {
		cb.probing = false
		// Reset() 可能在探测期间被调用，此时不再按探测结果迁移
		if cb.phase == phaseHalfOpen {
			if err == nil {
				cb.transitionLocked(phaseClosed, "probe succeeded")
			} else {
				cb.transitionLocked(phaseOpen, "probe failed")
			}
		}
		return
	}

	if cb.phase == phaseClosed && err != nil && cb.shouldTripLocked() {
		cb.transitionLocked(phaseOpen, "error threshold exceeded")
	}
}

// shouldTripLocked 判断是否应该触发熔断
// 必须持有 cb.mu 调用。
func (cb *circuitBreaker) shouldTripLocked() bool {
	s := cb.window.snapshot()

	// 请求量不足时不做失败率判断，单次失败不应熔断
	if s.Fires < cb.cfg.VolumeThreshold {
		return false
	}

	ratio := float64(s.Failures+s.Timeouts) / float64(s.Fires) * 100
	return ratio >= cb.cfg.ErrorThresholdPercentage
}

// transitionLocked 提交状态迁移并发出一次迁移事件
// 同一迁移不会重复发出事件。必须持有 cb.mu 调用。
func (cb *circuitBreaker) transitionLocked(to phase, reason string) {
	if cb.phase == to {
		return
	}

	from := cb.phase
	cb.phase = to
	cb.probing = false

	switch to {
	case phaseOpen:
		cb.openedAt = cb.now()
		stats := cb.window.snapshot()
		cb.logger.Warn("circuit breaker opened",
			clog.String("reason", reason),
			clog.Uint64("fires", stats.Fires),
			clog.Uint64("failures", stats.Failures),
			clog.Uint64("timeouts", stats.Timeouts))
	case phaseHalfOpen:
		cb.logger.Info("circuit breaker half-open", clog.String("reason", reason))
	case phaseClosed:
		// 关闭时开启全新统计窗口
		cb.window.reset()
		cb.logger.Info("circuit breaker closed", clog.String("reason", reason))
	}

	if cb.stateChanges != nil {
		cb.stateChanges.Inc(context.Background(),
			metrics.L(LabelName, cb.cfg.Name),
			metrics.L(metrics.LabelFromState, phaseString(from)),
			metrics.L(metrics.LabelToState, phaseString(to)))
	}
}

// phaseString 将内部阶段转换为字符串（内部使用）
func phaseString(p phase) string {
	switch p {
	case phaseOpen:
		return "open"
	case phaseHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// outcomeLabel 将调用结果映射为指标标签值（内部使用）
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case xerrors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	default:
		return "failure"
	}
}
