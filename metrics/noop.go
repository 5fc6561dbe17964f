package metrics

import "context"

// noopMeter 空操作 Meter，Enabled=false 时返回（内部使用）
type noopMeter struct{}

func (m *noopMeter) Counter(name string, desc string, opts ...MetricOption) (Counter, error) {
	return &noopCounter{}, nil
}

func (m *noopMeter) Gauge(name string, desc string, opts ...MetricOption) (Gauge, error) {
	return &noopGauge{}, nil
}

func (m *noopMeter) Histogram(name string, desc string, opts ...MetricOption) (Histogram, error) {
	return &noopHistogram{}, nil
}

func (m *noopMeter) Shutdown(ctx context.Context) error { return nil }

// Noop 返回一个空操作 Meter，便于测试和按需禁用
func Noop() Meter {
	return &noopMeter{}
}

type noopCounter struct{}

func (c *noopCounter) Inc(ctx context.Context, labels ...Label)            {}
func (c *noopCounter) Add(ctx context.Context, v float64, labels ...Label) {}

type noopGauge struct{}

func (g *noopGauge) Set(ctx context.Context, v float64, labels ...Label) {}
func (g *noopGauge) Inc(ctx context.Context, labels ...Label)            {}
func (g *noopGauge) Dec(ctx context.Context, labels ...Label)            {}

type noopHistogram struct{}

func (h *noopHistogram) Record(ctx context.Context, v float64, labels ...Label) {}
