package clog

import "fmt"

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用默认配置
// opts   - 函数式选项列表，用于命名空间等配置
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = &Config{Level: "info", Format: "console", Output: "stdout"}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	options := applyOptions(opts...)

	return newLogger(config, options)
}
