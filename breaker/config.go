package breaker

import "time"

// Config 熔断器配置
type Config struct {
	// Name 熔断器标识，通常为上游来源（如 "pncp"、"comprasgov"）
	// 用于日志与指标打点
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// ErrorThresholdPercentage 失败率阈值，取值 0-100（默认：50）
	// 当窗口内 (failures+timeouts)/fires 的百分比达到此值时触发熔断
	ErrorThresholdPercentage float64 `json:"error_threshold_percentage" yaml:"error_threshold_percentage" mapstructure:"error_threshold_percentage"`

	// VolumeThreshold 触发熔断的最小放行请求数（默认：10）
	// 窗口内 fires 少于此值时不会触发熔断判断，避免单次失败直接熔断
	VolumeThreshold uint64 `json:"volume_threshold" yaml:"volume_threshold" mapstructure:"volume_threshold"`

	// ResetTimeout 熔断持续时间（默认：30s）
	// 进入 Open 状态后，等待此时间后转为 HalfOpen 进行探测
	ResetTimeout time.Duration `json:"reset_timeout" yaml:"reset_timeout" mapstructure:"reset_timeout"`

	// WindowSize 滚动统计窗口时长（默认：10s）
	WindowSize time.Duration `json:"window_size" yaml:"window_size" mapstructure:"window_size"`

	// WindowBuckets 窗口内的分桶数量（默认：10）
	// 桶越多，旧样本被淘汰得越平滑
	WindowBuckets int `json:"window_buckets" yaml:"window_buckets" mapstructure:"window_buckets"`
}

// validate 设置默认值并验证配置（内部使用）
func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.ErrorThresholdPercentage == 0 {
		c.ErrorThresholdPercentage = 50
	}
	if c.ErrorThresholdPercentage < 0 || c.ErrorThresholdPercentage > 100 {
		return ErrInvalidThreshold
	}
	if c.VolumeThreshold == 0 {
		c.VolumeThreshold = 10
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = 30 * time.Second
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 10 * time.Second
	}
	if c.WindowBuckets <= 0 {
		c.WindowBuckets = 10
	}
	return nil
}
