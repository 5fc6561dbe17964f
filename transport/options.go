package transport

import (
	"net/http"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
)

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用）
type options struct {
	logger clog.Logger
	meter  metrics.Meter
	client *http.Client
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
// 内部会自动添加 namespace: "transport"
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("transport")
		}
	}
}

// WithMeter 注入指标 Meter
func WithMeter(m metrics.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// WithHTTPClient 注入自定义 *http.Client
//
// 用于测试或需要自定义连接池、TLS 配置的场景。
// 注意：不要在注入的 client 上设置 Timeout，超时由执行器通过 context 统一控制。
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}
