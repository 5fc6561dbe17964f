package govapi

// 指标名称
const (
	// MetricCallsTotal 客户端调用总数（含缓存命中与熔断拒绝）
	MetricCallsTotal = "govapi_calls_total"

	// MetricCallDuration 客户端调用耗时（秒），不含缓存命中
	MetricCallDuration = "govapi_call_duration_seconds"
)
