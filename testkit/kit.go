// Package testkit 提供 govlink 测试的通用脚手架。
//
// 包含测试用的 Logger / Meter，以及一组可控的模拟政府 API 上游
// （稳定、慢速、间歇故障），用于在不依赖真实外部服务的情况下
// 验证超时、重试与熔断行为。
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
)

// Kit 包含通用的测试依赖
type Kit struct {
	Ctx    context.Context
	Logger clog.Logger
	Meter  metrics.Meter
}

// NewKit 返回一个包含默认依赖的测试工具包
func NewKit(t *testing.T) *Kit {
	return &Kit{
		Ctx:    context.Background(),
		Logger: NewLogger(),
		Meter:  NewMeter(),
	}
}

// NewLogger 返回一个用于测试的 logger
// 输出到控制台格式，适合本地调试
func NewLogger() clog.Logger {
	logger, err := clog.New(&clog.Config{
		Level:  "debug",
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		return clog.Discard()
	}
	return logger
}

// NewMeter 返回一个用于测试的 meter
// 使用空操作模式，不实际输出指标
func NewMeter() metrics.Meter {
	return metrics.Noop()
}

// NewContext 返回一个带有超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewID 返回一个唯一的测试 ID (UUID v4 前 8 位)
// 用于生成唯一的缓存键或路径后缀，避免测试间数据冲突
func NewID() string {
	return uuid.New().String()[0:8]
}
