// Package metrics 为 govlink 提供统一的指标收集能力。
// 基于 OpenTelemetry 标准构建，提供简洁的 Counter、Gauge、Histogram 指标接口。
//
// 架构说明：
//   - 基于 OpenTelemetry 标准，确保与云原生生态兼容
//   - 内置 Prometheus HTTP 服务器，支持指标自动暴露
//   - Enabled=false 时返回空操作 Meter，调用方无需判空
//
// 快速开始：
//
//	cfg := &metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "govlink",
//	    Version:     "v1.0.0",
//	    Port:        9090,
//	    Path:        "/metrics",
//	}
//
//	meter, err := metrics.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("govapi_requests_total", "上游请求总数")
//	counter.Inc(ctx, metrics.L("source", "pncp"))
package metrics

import "context"

// Counter 计数器接口
// 用于记录只能增加的累计值，例如上游请求数、失败次数、熔断拒绝数等
type Counter interface {
	// Inc 将计数器增加 1
	Inc(ctx context.Context, labels ...Label)

	// Add 将计数器增加给定的值
	// 注意：如果传入负数，大部分监控系统会忽略或报错
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 仪表盘接口
// 用于记录可以任意增减的瞬时值，例如熔断器状态、在途请求数等
type Gauge interface {
	// Set 将 gauge 设置为给定的值
	Set(ctx context.Context, val float64, labels ...Label)

	// Inc 将 gauge 增加 1
	Inc(ctx context.Context, labels ...Label)

	// Dec 将 gauge 减少 1
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 直方图接口
// 用于记录值的分布情况，例如请求耗时、响应大小等
type Histogram interface {
	// Record 在直方图中记录一个值
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂接口
//
// 一个 Meter 实例通常对应一个服务，通过 Meter 创建的指标
// 是线程安全的，可以在多个 goroutine 中并发使用。
type Meter interface {
	// Counter 创建计数器实例
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)

	// Gauge 创建仪表盘实例
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)

	// Histogram 创建直方图实例
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Shutdown 关闭 Meter，刷新所有指标
	// 通常在应用程序退出时调用
	Shutdown(ctx context.Context) error
}

// Label 指标标签，键值对形式
type Label struct {
	Key   string
	Value string
}

// L 创建一个标签，便于内联书写
//
//	counter.Inc(ctx, metrics.L("source", "pncp"), metrics.L("outcome", "timeout"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// MetricOption 指标配置选项函数类型
type MetricOption func(*MetricOptions)

// MetricOptions 指标选项结构体
type MetricOptions struct {
	// Unit 指标的单位，例如 "bytes"、"seconds"
	// 建议使用 UCUM 单位代码
	Unit string
}

// WithUnit 设置指标的单位
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}
