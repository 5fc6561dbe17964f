package config

import (
	"strings"

	"github.com/ceyewan/govlink/clog"
)

// Option 配置加载器选项函数
type Option func(*Options)

// Options 加载器选项
type Options struct {
	Name      string   // 配置文件名称（不含扩展名），默认 "govlink"
	Paths     []string // 配置文件搜索路径，默认 ["."、"./config"]
	FileType  string   // 配置文件类型，默认 "yaml"
	EnvPrefix string   // 环境变量前缀，默认 "GOVLINK"
	Logger    clog.Logger
}

// defaultOptions 返回默认选项（内部函数）
func defaultOptions() *Options {
	return &Options{
		Name:      "govlink",
		Paths:     []string{".", "./config"},
		FileType:  "yaml",
		EnvPrefix: "GOVLINK",
	}
}

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) {
		o.Paths = paths
	}
}

// WithConfigType 设置配置文件类型 (yaml, json, etc.)
func WithConfigType(typ string) Option {
	return func(o *Options) {
		o.FileType = typ
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = strings.ToUpper(prefix)
	}
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
// 内部会自动添加 namespace: "config"
func WithLogger(logger clog.Logger) Option {
	return func(o *Options) {
		if logger == nil {
			o.Logger = clog.Discard()
		} else {
			o.Logger = logger.WithNamespace("config")
		}
	}
}
