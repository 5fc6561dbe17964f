package clog

// noopLogger 是一个什么都不做的 Logger 实现（内部使用）
type noopLogger struct{}

// Discard 创建一个静默的 Logger 实例
//
// 返回的 Logger 实现了 Logger 接口，但所有方法体都是空操作。
func Discard() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(msg string, fields ...Field) {}
func (l *noopLogger) Info(msg string, fields ...Field)  {}
func (l *noopLogger) Warn(msg string, fields ...Field)  {}
func (l *noopLogger) Error(msg string, fields ...Field) {}

// With 返回自身
func (l *noopLogger) With(fields ...Field) Logger {
	return l
}

// WithNamespace 返回自身
func (l *noopLogger) WithNamespace(parts ...string) Logger {
	return l
}

// SetLevel 是空操作
func (l *noopLogger) SetLevel(level Level) error {
	return nil
}
