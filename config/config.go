// Package config 为 govlink 提供统一的配置加载能力。
// 基于 Viper 实现，支持多源配置加载与热更新通知。
//
// 特性：
//   - 多源配置加载：YAML 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 配置文件
//   - 热更新支持：基于 fsnotify 监听配置文件变化
//   - 每个来源的熔断与重试参数在加载时填充默认值并验证
//
// 基本使用：
//
//	loader, _ := config.New(
//		config.WithConfigName("govlink"),
//		config.WithConfigPaths("./config"),
//	)
//	if err := loader.Load(ctx); err != nil {
//		panic(err)
//	}
//
//	settings, _ := loader.Settings()
//	for name, cfg := range settings.Sources {
//		client, _ := govapi.New(&cfg)
//		// ...
//	}
//
//	// 监听配置变化
//	ch, _ := loader.Watch(ctx)
//	for event := range ch {
//		fmt.Printf("配置文件变化: %s\n", event.File)
//	}
package config

import (
	"context"
	"time"
)

// Loader 配置加载器接口
type Loader interface {
	// Load 从所有来源加载配置并启动文件监听
	Load(ctx context.Context) error

	// Settings 返回解析并验证后的完整配置
	//
	// 每次调用重新从底层快照解析，热更新后可获取新值。
	Settings() (*Settings, error)

	// Get 获取原始配置值
	Get(key string) any

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 订阅配置文件变更事件，通过 ctx 取消订阅
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event 配置变更事件
type Event struct {
	// File 发生变化的配置文件路径
	File string
	// Timestamp 事件时间
	Timestamp time.Time
}

// New 创建配置加载器
func New(opts ...Option) (Loader, error) {
	opt := defaultOptions()
	for _, o := range opts {
		o(opt)
	}
	return newLoader(opt)
}
