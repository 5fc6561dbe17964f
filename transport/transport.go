// Package transport 提供面向上游政府 API 的 HTTP 请求执行器。
//
// transport 是 govlink 的最底层网络组件，它提供了：
// - 基于 context 的墙钟超时控制，超时后真正中止在途请求
// - 按结果分类的错误类型（HTTPError / TimeoutError / TransportError / ParseError）
// - HTTP 状态码 >= 400 时立即失败，不等待超时
// - 响应体大小上限保护，单次读取后即释放，不会跨调用累积
// - 对畸形 JSON、二进制负载的容错：原始字节总是可用，JSON 解码按需进行
//
// ## 基本使用
//
//	exec, _ := transport.New(&transport.Config{
//		BaseURL: "https://pncp.gov.br/api",
//		Timeout: 5 * time.Second,
//	}, transport.WithLogger(logger))
//
//	resp, err := exec.Do(ctx, &transport.Request{Path: "/v1/orgaos"})
//	if err != nil {
//		var httpErr *transport.HTTPError
//		if errors.As(err, &httpErr) {
//			// 上游明确返回了错误状态码
//		}
//	}
//
//	var out []Orgao
//	if err := resp.JSON(&out); err != nil {
//		// 响应体不是合法 JSON
//	}
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ceyewan/govlink/clog"
)

// Executor HTTP 请求执行器接口
type Executor interface {
	// Do 执行一次出站调用
	//
	// 成功时返回响应；失败时返回分类后的错误：
	//   - *HTTPError: 上游返回了 >= 400 的状态码（立即返回，不等待超时）
	//   - *TimeoutError: 在 Timeout 内未收到响应，在途请求已被中止
	//   - *TransportError: 连接级失败（DNS、连接重置等）
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request 一次出站调用的描述
type Request struct {
	// Method HTTP 方法，为空时默认 GET
	Method string

	// Path 相对路径，拼接到 BaseURL 之后
	Path string

	// Query 查询参数（可选）
	Query url.Values

	// Header 附加请求头（可选）
	Header http.Header

	// Body 请求体（可选）
	Body []byte
}

// Response 一次出站调用的结果
type Response struct {
	// StatusCode HTTP 状态码
	StatusCode int

	// Header 响应头
	Header http.Header

	// Body 原始响应体字节
	//
	// 无论负载是 JSON、文本还是二进制，原始字节总是完整保留，
	// JSON 解码通过 JSON() 按需进行。
	Body []byte

	// Elapsed 从发出请求到读完响应体的耗时
	Elapsed time.Duration
}

// New 创建请求执行器实例
//
// 参数:
//   - cfg: 执行器配置（BaseURL、Timeout、MaxBodySize）
//   - opts: 可选参数 (Logger, Meter, HTTPClient)
func New(cfg *Config, opts ...Option) (Executor, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}

	return newExecutor(cfg, logger, opt.meter, opt.client)
}
