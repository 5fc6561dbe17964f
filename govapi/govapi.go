// Package govapi 提供面向政府采购 API 的弹性客户端门面。
//
// govapi 组合了 govlink 的各个治理组件，对调用方只暴露一个 Client：
//   - transport: 带超时中止的 HTTP 执行器
//   - breaker: 每个客户端实例独享一个熔断器，不同来源互不影响
//   - retry: 瞬时失败的指数退避重试，每次尝试独立经过熔断器
//   - cache: 可选的 GET 响应缓存
//   - rate: 可选的出站限流（golang.org/x/time/rate）
//
// 一次调用的完整路径：限流 → 缓存查找 → retry(breaker(transport)) → 缓存回填。
//
// ## 基本使用
//
//	client, _ := govapi.New(&govapi.Config{
//		BaseURL: "https://pncp.gov.br/api",
//		Source:  govapi.SourcePNCP,
//		Timeout: 5 * time.Second,
//	}, govapi.WithLogger(logger))
//	defer client.Close()
//
//	var orgaos []Orgao
//	err := client.GetJSON(ctx, "/v1/orgaos", &orgaos,
//		govapi.WithQuery("pagina", "1"))
//
// ## 可用性观测
//
//	if !client.IsAvailable() {
//		// 熔断中，提示调用方稍后再试
//	}
//	snap := client.CircuitState() // 健康检查端点直接序列化即可
package govapi

import (
	"context"

	"github.com/ceyewan/govlink/breaker"
	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/transport"
)

// Source 上游数据来源标识
type Source string

// 支持的政府数据源
const (
	// SourcePNCP 国家公共采购平台（Portal Nacional de Contratações Públicas）
	SourcePNCP Source = "pncp"
	// SourceComprasGov 联邦政府采购系统（Compras.gov.br）
	SourceComprasGov Source = "comprasgov"
	// SourceTransparencia 透明门户（Portal da Transparência）
	SourceTransparencia Source = "transparencia"
)

// Client 政府 API 客户端接口
type Client interface {
	// Get 执行 GET 请求并返回原始响应体
	Get(ctx context.Context, path string, opts ...RequestOption) ([]byte, error)

	// GetJSON 执行 GET 请求并将响应体解码到 dest
	GetJSON(ctx context.Context, path string, dest any, opts ...RequestOption) error

	// Do 执行任意请求，完整经过限流、缓存、重试与熔断
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)

	// IsAvailable 熔断器是否允许放行（Closed 或 HalfOpen 为 true）
	IsAvailable() bool

	// CircuitState 熔断器状态快照，只读、无副作用
	CircuitState() breaker.Snapshot

	// Close 关闭客户端，之后的调用返回 ErrClientClosed
	// 注入的缓存与 http.Client 由注入方负责关闭
	Close() error
}

// New 创建客户端实例
//
// 参数:
//   - cfg: 客户端配置（BaseURL、Source、Timeout、Breaker、Retry）
//   - opts: 可选参数 (Logger, Meter, Cache, RateLimit, HTTPClient)
//
// 每个实例独享一个熔断器，配置在 New 之后不可变更。
func New(cfg *Config, opts ...Option) (Client, error) {
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
	logger = logger.With(clog.String("source", string(cfg.Source)))

	return newClient(cfg, logger, &opt)
}
