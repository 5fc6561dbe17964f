package transport

// 指标名称
const (
	// MetricRequestsTotal 出站请求总数
	MetricRequestsTotal = "transport_requests_total"

	// MetricRequestDuration 出站请求耗时（秒）
	MetricRequestDuration = "transport_request_duration_seconds"
)
