package breaker

import "github.com/ceyewan/govlink/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("breaker: config is nil")

	// ErrInvalidThreshold 失败率阈值超出 0-100 范围
	ErrInvalidThreshold = xerrors.New("breaker: error threshold percentage must be in [0, 100]")

	// ErrOpenState 熔断器处于打开状态，请求被拒绝
	ErrOpenState = xerrors.New("breaker: circuit breaker is open")
)
