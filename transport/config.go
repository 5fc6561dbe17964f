package transport

import (
	"net/url"
	"time"
)

const (
	// defaultTimeout 默认单次请求超时
	defaultTimeout = 30 * time.Second

	// defaultMaxBodySize 默认响应体大小上限（32 MiB）
	defaultMaxBodySize = 32 << 20
)

// Config 请求执行器配置
type Config struct {
	// BaseURL 上游 API 根地址（如 "https://pncp.gov.br/api"）
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout 单次请求的墙钟超时（默认：30s）
	// 超时后在途请求会被真正中止，迟到的响应被丢弃
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxBodySize 响应体大小上限，字节（默认：32 MiB）
	// 超过上限按传输错误处理，避免异常负载耗尽内存
	MaxBodySize int64 `json:"max_body_size" yaml:"max_body_size" mapstructure:"max_body_size"`

	// UserAgent 请求头 User-Agent（默认："govlink"）
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// validate 设置默认值并验证配置（内部使用）
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return ErrBaseURLInvalid
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.UserAgent == "" {
		c.UserAgent = "govlink"
	}
	return nil
}
