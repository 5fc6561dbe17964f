package govapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ceyewan/govlink/breaker"
	"github.com/ceyewan/govlink/cache"
	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
	"github.com/ceyewan/govlink/retry"
	"github.com/ceyewan/govlink/transport"
	"github.com/ceyewan/govlink/xerrors"
)

// client 客户端实现（非导出）
type client struct {
	cfg     *Config
	logger  clog.Logger
	exec    transport.Executor
	brk     breaker.Breaker
	store   cache.Store
	limiter *rate.Limiter
	closed  atomic.Bool

	calls    metrics.Counter
	duration metrics.Histogram
}

// newClient 创建客户端实例（内部函数）
// 注意：cfg 已在 New() 中调用 validate() 设置了默认值
func newClient(cfg *Config, logger clog.Logger, opt *options) (Client, error) {
	exec, err := transport.New(&transport.Config{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxBodySize: cfg.MaxBodySize,
	}, transport.WithLogger(logger), transport.WithMeter(opt.meter), transport.WithHTTPClient(opt.httpClient))
	if err != nil {
		return nil, err
	}

	brkCfg := cfg.Breaker
	brk, err := breaker.New(&brkCfg, breaker.WithLogger(logger), breaker.WithMeter(opt.meter))
	if err != nil {
		return nil, err
	}

	c := &client{
		cfg:     cfg,
		logger:  logger,
		exec:    exec,
		brk:     brk,
		store:   opt.store,
		limiter: opt.limiter,
	}

	if opt.meter != nil {
		if c.calls, err = opt.meter.Counter(MetricCallsTotal, "Client calls by source and outcome"); err != nil {
			return nil, xerrors.Wrap(err, "govapi: create call counter")
		}
		if c.duration, err = opt.meter.Histogram(MetricCallDuration, "Client call duration", metrics.WithUnit("s")); err != nil {
			return nil, xerrors.Wrap(err, "govapi: create duration histogram")
		}
	}

	return c, nil
}

func (c *client) Get(ctx context.Context, path string, opts ...RequestOption) ([]byte, error) {
	resp, err := c.doGet(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *client) GetJSON(ctx context.Context, path string, dest any, opts ...RequestOption) error {
	resp, err := c.doGet(ctx, path, opts...)
	if err != nil {
		return err
	}
	return resp.JSON(dest)
}

// doGet 组装 GET 请求并执行（内部方法）
func (c *client) doGet(ctx context.Context, path string, opts ...RequestOption) (*transport.Response, error) {
	opt := requestOptions{}
	for _, o := range opts {
		o(&opt)
	}
	return c.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  opt.query,
		Header: opt.header,
	})
}

// Do 执行一次完整治理链路的调用
//
// 路径：限流 → 缓存查找 → retry(breaker(transport)) → 缓存回填。
// 每次重试尝试都独立经过熔断器并获得完整的超时预算。
func (c *client) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if req == nil {
		return nil, transport.ErrRequestNil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, xerrors.Wrap(err, "govapi: rate limit wait")
		}
	}

	requestID := uuid.NewString()
	logger := c.logger.With(
		clog.String("request_id", requestID),
		clog.String("path", req.Path))

	cacheable := c.store != nil && (req.Method == "" || req.Method == http.MethodGet)
	var key string
	if cacheable {
		key = cache.Key(string(c.cfg.Source), http.MethodGet, req.Path, req.Query)
		if resp, ok := c.store.Get(ctx, key); ok {
			c.observe(ctx, metrics.OutcomeSuccess, 0)
			return resp, nil
		}
	}

	if req.Header == nil {
		req.Header = http.Header{}
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	var resp *transport.Response
	err := retry.Do(ctx, c.cfg.Retry, func(ctx context.Context) error {
		return c.brk.Execute(ctx, func(ctx context.Context) error {
			r, callErr := c.exec.Do(ctx, req)
			if callErr != nil {
				return callErr
			}
			resp = r
			return nil
		})
	}, retry.WithLogger(c.logger))
	elapsed := time.Since(start)

	outcome := classifyOutcome(err)
	c.observe(ctx, outcome, elapsed)

	if err != nil {
		logger.Warn("call failed",
			clog.String("outcome", outcome),
			clog.Duration("elapsed", elapsed),
			clog.Error(err))
		return nil, err
	}

	if cacheable {
		c.store.Set(ctx, key, resp, 0)
	}

	logger.Debug("call completed",
		clog.Int("status", resp.StatusCode),
		clog.Duration("elapsed", elapsed))
	return resp, nil
}

func (c *client) IsAvailable() bool {
	return c.brk.State() != breaker.StateOpen
}

func (c *client) CircuitState() breaker.Snapshot {
	return c.brk.Snapshot()
}

func (c *client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.logger.Info("client closed")
	return nil
}

// observe 记录调用指标（内部方法）
func (c *client) observe(ctx context.Context, outcome string, elapsed time.Duration) {
	if c.calls != nil {
		c.calls.Inc(ctx,
			metrics.L(metrics.LabelSource, string(c.cfg.Source)),
			metrics.L(metrics.LabelOutcome, outcome))
	}
	if c.duration != nil && elapsed > 0 {
		c.duration.Record(ctx, elapsed.Seconds(),
			metrics.L(metrics.LabelSource, string(c.cfg.Source)))
	}
}

// classifyOutcome 将最终错误分类为指标结果标签（内部函数）
func classifyOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case xerrors.Is(err, breaker.ErrOpenState):
		return metrics.OutcomeRejected
	case transport.IsTimeout(err):
		return metrics.OutcomeTimeout
	default:
		var httpErr *transport.HTTPError
		if xerrors.As(err, &httpErr) {
			return metrics.OutcomeHTTPError
		}
		return metrics.OutcomeTransport
	}
}
