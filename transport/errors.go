package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/ceyewan/govlink/xerrors"
)

// 配置错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("transport: config is nil")

	// ErrBaseURLEmpty BaseURL 为空
	ErrBaseURLEmpty = xerrors.New("transport: base url is empty")

	// ErrBaseURLInvalid BaseURL 无法解析
	ErrBaseURLInvalid = xerrors.New("transport: base url is invalid")

	// ErrRequestNil 请求为空
	ErrRequestNil = xerrors.New("transport: request is nil")

	// ErrBodyTooLarge 响应体超过大小上限
	ErrBodyTooLarge = xerrors.New("transport: response body exceeds max body size")
)

// HTTPError 上游返回了非 2xx 状态码
//
// 上游明确作出了响应，与"上游始终没有响应"（TimeoutError）严格区分，
// 熔断与重试逻辑对两者的处理不同。
type HTTPError struct {
	// StatusCode HTTP 状态码
	StatusCode int
	// Path 请求路径
	Path string
	// Body 响应体（可能为空或被截断，仅用于诊断）
	Body []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("transport: upstream returned %d for %s", e.StatusCode, e.Path)
}

// TimeoutError 在配置的超时内未收到响应，在途请求已被中止
type TimeoutError struct {
	// Path 请求路径
	Path string
	// Timeout 配置的超时时长
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport: request to %s timed out after %s", e.Path, e.Timeout)
}

// Unwrap 保证 errors.Is(err, context.DeadlineExceeded) 成立，
// 熔断器依赖该语义将超时与一般失败分开统计
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// TransportError 连接级失败（DNS 解析失败、连接重置、请求被中止等）
type TransportError struct {
	// Path 请求路径
	Path string
	// Cause 底层错误
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: request to %s failed: %v", e.Path, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError 响应体无法按预期格式解析
//
// 与传输层失败严格区分：数据已经完整收到，只是内容不合预期。
type ParseError struct {
	// Cause 底层解码错误
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("transport: failed to parse response body: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsTimeout 判断错误是否为超时
func IsTimeout(err error) bool {
	var t *TimeoutError
	return xerrors.As(err, &t)
}

// IsTransient 判断错误是否为瞬时失败（超时或传输错误），可安全重试
func IsTransient(err error) bool {
	var t *TimeoutError
	var tr *TransportError
	return xerrors.As(err, &t) || xerrors.As(err, &tr)
}
