package cache

import "time"

// 默认配置值
const (
	defaultCapacity = 1024
	defaultTTL      = time.Minute
)

// Config 缓存配置
type Config struct {
	// Capacity 最大条目数，默认 1024
	Capacity int `json:"capacity" yaml:"capacity" mapstructure:"capacity"`

	// TTL 条目默认存活时间（写入起算，读取不续期），默认 1 分钟
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// validate 校验配置并设置默认值（内部方法）
func (c *Config) validate() error {
	if c.Capacity <= 0 {
		c.Capacity = defaultCapacity
	}
	if c.TTL <= 0 {
		c.TTL = defaultTTL
	}
	return nil
}
