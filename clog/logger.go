// Package clog 为 govlink 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 支持层级命名空间，便于区分组件与上游来源
//   - 零外部依赖（仅依赖 Go 标准库）
//   - 采用函数式选项模式
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stdout",
//	})
//	logger.Info("client created", clog.String("source", "pncp"))
//
// 创建子 Logger：
//
//	brkLogger := logger.WithNamespace("breaker")
//	srcLogger := logger.With(clog.String("source", "comprasgov"))
package clog

// Logger 日志接口，提供结构化日志记录功能
//
// 支持四个日志级别：Debug、Info、Warn、Error。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger
	//
	// 预设的字段会出现在该子 Logger 的所有日志中。
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger
	//
	// 命名空间以 "." 连接并追加到现有命名空间后面，
	// 作为日志中的 namespace 字段输出。
	WithNamespace(parts ...string) Logger

	// SetLevel 动态调整日志级别，不需要重新创建 Logger
	SetLevel(level Level) error
}
