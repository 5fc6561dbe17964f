package govapi

import (
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/ceyewan/govlink/cache"
	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
)

// Option 客户端初始化选项函数
type Option func(*options)

// options 客户端初始化选项配置（内部使用）
type options struct {
	logger     clog.Logger
	meter      metrics.Meter
	store      cache.Store
	limiter    *rate.Limiter
	httpClient *http.Client
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
// 内部会自动添加 namespace: "govapi"
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("govapi")
		}
	}
}

// WithMeter 注入指标 Meter
func WithMeter(m metrics.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// WithCache 注入 GET 响应缓存
//
// 只有成功的 GET 响应会被写入缓存；缓存的生命周期由注入方管理，
// Client.Close 不会关闭它。
func WithCache(store cache.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRateLimit 设置出站限流（令牌桶）
//
// rps 为每秒放行的请求数，burst 为突发容量。
// 等待令牌时尊重 ctx 取消。
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHTTPClient 注入自定义 *http.Client，透传给 transport
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// RequestOption 单次请求选项函数
type RequestOption func(*requestOptions)

// requestOptions 单次请求选项配置（内部使用）
type requestOptions struct {
	query  url.Values
	header http.Header
}

// WithQuery 追加一个查询参数
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Add(key, value)
	}
}

// WithHeader 追加一个请求头
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Add(key, value)
	}
}
