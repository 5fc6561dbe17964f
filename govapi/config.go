package govapi

import (
	"time"

	"github.com/ceyewan/govlink/breaker"
	"github.com/ceyewan/govlink/retry"
)

// Config 客户端配置
//
// 配置在 New 之后不可变更。每个配置对应一个独立的熔断器实例，
// 不同来源的故障状态互不影响。
type Config struct {
	// BaseURL 上游 API 基础地址（必填）
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Source 上游来源标识，用于日志与指标打点（默认："custom"）
	Source Source `json:"source" yaml:"source" mapstructure:"source"`

	// Timeout 单次请求的墙钟超时（默认：30s）
	// 重试的每次尝试都获得独立的完整超时
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxBodySize 响应体大小上限（默认：32MB）
	MaxBodySize int64 `json:"max_body_size" yaml:"max_body_size" mapstructure:"max_body_size"`

	// Breaker 熔断器配置，Name 留空时使用 Source
	Breaker breaker.Config `json:"breaker" yaml:"breaker" mapstructure:"breaker"`

	// Retry 重试策略，MaxRetries 为 0 时禁用重试
	Retry retry.Policy `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// validate 校验配置并设置默认值（内部方法）
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	if c.Source == "" {
		c.Source = "custom"
	}
	if c.Breaker.Name == "" {
		c.Breaker.Name = string(c.Source)
	}
	return nil
}
