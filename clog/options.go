package clog

// Option 函数式选项，用于配置 Logger 实例
type Option func(*options)

// options 内部选项结构
type options struct {
	namespaceParts []string
}

// applyOptions 应用所有选项（内部使用）
func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithNamespace 设置日志命名空间，支持多级命名空间
//
// 命名空间会以 "." 连接，作为日志中的 namespace 字段。
//
// 示例：
//
//	// 设置为 "govlink.pncp"
//	clog.WithNamespace("govlink", "pncp")
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespaceParts = append(o.namespaceParts, parts...)
	}
}
