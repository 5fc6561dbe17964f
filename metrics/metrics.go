package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/ceyewan/govlink/clog"
)

// Config 指标组件配置
type Config struct {
	// Enabled 是否启用指标收集，false 时返回空操作 Meter
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ServiceName 服务名称，会作为资源属性附加到所有指标
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`

	// Version 服务版本
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// Port Prometheus HTTP 服务器端口，0 表示不启动
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Path 指标暴露路径（如 /metrics）
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// New 创建 Meter 实例
// 返回值实现 Meter 接口，用于创建和记录指标
func New(cfg *Config, opts ...Option) (Meter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if !cfg.Enabled {
		return &noopMeter{}, nil
	}

	options := &options{logger: clog.Discard()}
	for _, opt := range opts {
		opt(options)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	prometheusExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(prometheusExporter),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	// 启动 Prometheus HTTP 服务器
	if cfg.Port > 0 && cfg.Path != "" {
		logger := options.logger
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Port)
			mux := http.NewServeMux()
			mux.Handle(cfg.Path, promhttp.Handler())
			httpServer := &http.Server{
				Addr:    addr,
				Handler: mux,
			}
			logger.Info("starting prometheus metrics server",
				clog.String("addr", addr), clog.String("path", cfg.Path))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("prometheus server error", clog.Error(err))
			}
		}()
	}

	otelMeter := mp.Meter("govlink")

	return &meterImpl{
		meter:    otelMeter,
		provider: mp,
		config:   cfg,
	}, nil
}

// Must 类似 New，但出错时 panic，仅用于初始化阶段
func Must(cfg *Config, opts ...Option) Meter {
	m, err := New(cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create metrics: %v", err))
	}
	return m
}

// meterImpl 实现 Meter 接口
type meterImpl struct {
	meter    metric.Meter
	provider *sdkmetric.MeterProvider
	config   *Config
}

// Counter 创建计数器
func (m *meterImpl) Counter(name string, desc string, opts ...MetricOption) (Counter, error) {
	options := &MetricOptions{}
	for _, o := range opts {
		o(options)
	}

	otelOpts := []metric.Int64CounterOption{metric.WithDescription(desc)}
	if options.Unit != "" {
		otelOpts = append(otelOpts, metric.WithUnit(options.Unit))
	}

	c, err := m.meter.Int64Counter(name, otelOpts...)
	if err != nil {
		return nil, err
	}
	return &counterImpl{c: c}, nil
}

// Gauge 创建仪表盘
func (m *meterImpl) Gauge(name string, desc string, opts ...MetricOption) (Gauge, error) {
	g, err := m.meter.Float64Gauge(name, metric.WithDescription(desc))
	if err != nil {
		return nil, err
	}
	return &gaugeImpl{
		g:      g,
		values: make(map[string]float64),
	}, nil
}

// Histogram 创建直方图
func (m *meterImpl) Histogram(name string, desc string, opts ...MetricOption) (Histogram, error) {
	options := &MetricOptions{}
	for _, o := range opts {
		o(options)
	}

	otelOpts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
	}
	if options.Unit != "" {
		otelOpts = append(otelOpts, metric.WithUnit(options.Unit))
	}

	h, err := m.meter.Float64Histogram(name, otelOpts...)
	if err != nil {
		return nil, err
	}
	return &histogramImpl{h: h}, nil
}

// Shutdown 关闭 Meter，刷新所有指标
func (m *meterImpl) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// counterImpl 实现 Counter 接口
type counterImpl struct {
	c metric.Int64Counter
}

func (c *counterImpl) Inc(ctx context.Context, labels ...Label) {
	c.c.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (c *counterImpl) Add(ctx context.Context, val float64, labels ...Label) {
	c.c.Add(ctx, int64(val), metric.WithAttributes(toAttributes(labels)...))
}

// gaugeImpl 实现 Gauge 接口
// Inc/Dec 需要记住当前值，OTel 的 Gauge 只支持 Record
type gaugeImpl struct {
	g      metric.Float64Gauge
	values map[string]float64
	mu     sync.Mutex
}

func (g *gaugeImpl) Set(ctx context.Context, val float64, labels ...Label) {
	key := labelKey(labels)
	g.mu.Lock()
	g.values[key] = val
	g.mu.Unlock()
	g.g.Record(ctx, val, metric.WithAttributes(toAttributes(labels)...))
}

func (g *gaugeImpl) Inc(ctx context.Context, labels ...Label) {
	g.delta(ctx, 1, labels)
}

func (g *gaugeImpl) Dec(ctx context.Context, labels ...Label) {
	g.delta(ctx, -1, labels)
}

func (g *gaugeImpl) delta(ctx context.Context, d float64, labels []Label) {
	key := labelKey(labels)
	g.mu.Lock()
	g.values[key] += d
	val := g.values[key]
	g.mu.Unlock()
	g.g.Record(ctx, val, metric.WithAttributes(toAttributes(labels)...))
}

// histogramImpl 实现 Histogram 接口
type histogramImpl struct {
	h metric.Float64Histogram
}

func (h *histogramImpl) Record(ctx context.Context, val float64, labels ...Label) {
	h.h.Record(ctx, val, metric.WithAttributes(toAttributes(labels)...))
}

// toAttributes 将 Label 转换为 OTel attribute（内部使用）
func toAttributes(labels []Label) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for _, l := range labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}
	return attrs
}

// labelKey 将标签序列化为 map key（内部使用）
func labelKey(labels []Label) string {
	key := ""
	for _, l := range labels {
		key += l.Key + "=" + l.Value + ";"
	}
	return key
}
