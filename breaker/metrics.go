package breaker

// 指标名称
const (
	// MetricStateChanges 状态变更次数
	MetricStateChanges = "breaker_state_changes_total"

	// MetricRejectsTotal 被熔断拒绝的请求数
	MetricRejectsTotal = "breaker_rejects_total"

	// MetricOutcomesTotal 按结果类型统计的调用数
	MetricOutcomesTotal = "breaker_outcomes_total"
)

const (
	// LabelName 熔断器标识标签
	LabelName = "breaker"
)
