package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
	"github.com/ceyewan/govlink/xerrors"
)

// httpExecutor 请求执行器实现（非导出）
type httpExecutor struct {
	cfg    *Config
	base   *url.URL
	logger clog.Logger
	client *http.Client

	requests metrics.Counter
	duration metrics.Histogram
}

// newExecutor 创建执行器实例（内部函数）
// 注意：cfg 已在 New() 中调用 validate() 设置了默认值
func newExecutor(cfg *Config, logger clog.Logger, meter metrics.Meter, client *http.Client) (Executor, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, ErrBaseURLInvalid
	}

	if client == nil {
		// 不设置 client.Timeout，超时由每次调用的 context 控制，
		// 这样取消能精确中止在途请求并关闭底层连接
		client = &http.Client{}
	}

	e := &httpExecutor{
		cfg:    cfg,
		base:   base,
		logger: logger,
		client: client,
	}

	if meter != nil {
		if e.requests, err = meter.Counter(MetricRequestsTotal, "Outbound requests by status class"); err != nil {
			return nil, xerrors.Wrap(err, "transport: create request counter")
		}
		if e.duration, err = meter.Histogram(MetricRequestDuration, "Outbound request duration", metrics.WithUnit("s")); err != nil {
			return nil, xerrors.Wrap(err, "transport: create duration histogram")
		}
	}

	return e, nil
}

// Do 执行一次出站调用
func (e *httpExecutor) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrRequestNil
	}

	target := e.buildURL(req)

	// 每次调用独立的墙钟超时；cancel 同时负责中止在途请求，
	// 迟到的响应不会再触达本次调用的结果
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(callCtx, method, target, body)
	if err != nil {
		return nil, &TransportError{Path: req.Path, Cause: err}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", e.cfg.UserAgent)
	for k, vv := range req.Header {
		for _, v := range vv {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		return nil, e.classifyFailure(req.Path, elapsed, err)
	}
	defer httpResp.Body.Close()

	// 限制读取上限，异常负载不会耗尽内存；
	// 读完即持有唯一一份 []byte，旧响应随调用结束被回收
	data, err := io.ReadAll(io.LimitReader(httpResp.Body, e.cfg.MaxBodySize+1))
	if err != nil {
		elapsed := time.Since(start)
		return nil, e.classifyFailure(req.Path, elapsed, err)
	}
	if int64(len(data)) > e.cfg.MaxBodySize {
		e.logger.Warn("response body exceeds limit",
			clog.String("path", req.Path),
			clog.Int64("max_body_size", e.cfg.MaxBodySize))
		return nil, &TransportError{Path: req.Path, Cause: ErrBodyTooLarge}
	}

	elapsed := time.Since(start)
	e.observe(ctx, httpResp.StatusCode, elapsed)

	// 状态码 >= 400 时立即失败，上游已明确作出响应，与超时严格区分
	if httpResp.StatusCode >= http.StatusBadRequest {
		e.logger.Warn("upstream returned error status",
			clog.String("path", req.Path),
			clog.Int("status", httpResp.StatusCode),
			clog.Duration("elapsed", elapsed))
		return nil, &HTTPError{
			StatusCode: httpResp.StatusCode,
			Path:       req.Path,
			Body:       data,
		}
	}

	e.logger.Debug("request completed",
		clog.String("path", req.Path),
		clog.Int("status", httpResp.StatusCode),
		clog.Duration("elapsed", elapsed),
		clog.Int("body_bytes", len(data)))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		Elapsed:    elapsed,
	}, nil
}

// buildURL 将 BaseURL、Path 和 Query 拼接为完整地址（内部使用）
func (e *httpExecutor) buildURL(req *Request) string {
	u := *e.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}
	return u.String()
}

// classifyFailure 将底层错误分类为超时或传输错误（内部使用）
func (e *httpExecutor) classifyFailure(path string, elapsed time.Duration, err error) error {
	if xerrors.Is(err, context.DeadlineExceeded) {
		e.logger.Warn("request timed out",
			clog.String("path", path),
			clog.Duration("timeout", e.cfg.Timeout),
			clog.Duration("elapsed", elapsed))
		e.observeOutcome(metrics.OutcomeTimeout)
		return &TimeoutError{Path: path, Timeout: e.cfg.Timeout}
	}

	e.logger.Warn("request failed",
		clog.String("path", path),
		clog.Duration("elapsed", elapsed),
		clog.Error(err))
	e.observeOutcome(metrics.OutcomeTransport)
	return &TransportError{Path: path, Cause: err}
}

// observe 记录请求指标（内部使用）
func (e *httpExecutor) observe(ctx context.Context, status int, elapsed time.Duration) {
	if e.requests != nil {
		e.requests.Inc(ctx, metrics.L("status_class", metrics.HTTPStatusClass(status)))
	}
	if e.duration != nil {
		e.duration.Record(ctx, elapsed.Seconds())
	}
}

// observeOutcome 记录失败类型指标（内部使用）
func (e *httpExecutor) observeOutcome(outcome string) {
	if e.requests != nil {
		e.requests.Inc(context.Background(), metrics.L(metrics.LabelOutcome, outcome))
	}
}
