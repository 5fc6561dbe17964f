package metrics

import "strconv"

const (
	// 常见的标签
	LabelSource    = "source"
	LabelOutcome   = "outcome"
	LabelPath      = "path"
	LabelFromState = "from"
	LabelToState   = "to"
)

const (
	// 常见的结果
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeTimeout   = "timeout"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "circuit_rejected"
)

// HTTPStatusClass 返回 HTTP 状态类标签值：1xx/2xx/3xx/4xx/5xx/unknown
func HTTPStatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
