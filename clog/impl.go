package clog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// loggerImpl 是 Logger 接口的具体实现
type loggerImpl struct {
	handler   slog.Handler
	level     *slog.LevelVar
	namespace string
	baseAttrs []slog.Attr
}

// newLogger 创建 Logger 实例（内部使用）
func newLogger(config *Config, options *options) (Logger, error) {
	var out io.Writer
	switch config.Output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}

	level, _ := ParseLevel(config.Level)
	levelVar := &slog.LevelVar{}
	levelVar.Set(level.toSlogLevel())

	handlerOpts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return &loggerImpl{
		handler:   handler,
		level:     levelVar,
		namespace: strings.Join(options.namespaceParts, "."),
	}, nil
}

func (l *loggerImpl) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

func (l *loggerImpl) With(fields ...Field) Logger {
	child := *l
	child.baseAttrs = append(append([]slog.Attr{}, l.baseAttrs...), fields...)
	return &child
}

func (l *loggerImpl) WithNamespace(parts ...string) Logger {
	child := *l
	joined := strings.Join(parts, ".")
	if l.namespace != "" && joined != "" {
		child.namespace = l.namespace + "." + joined
	} else if joined != "" {
		child.namespace = joined
	}
	return &child
}

func (l *loggerImpl) SetLevel(level Level) error {
	l.level.Set(level.toSlogLevel())
	return nil
}

// log 组装属性并写入 handler（内部方法）
func (l *loggerImpl) log(level Level, msg string, fields ...Field) {
	slogLevel := level.toSlogLevel()
	if !l.handler.Enabled(context.Background(), slogLevel) {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.baseAttrs)+len(fields)+1)
	if l.namespace != "" {
		attrs = append(attrs, slog.String("namespace", l.namespace))
	}
	attrs = append(attrs, l.baseAttrs...)
	attrs = append(attrs, fields...)

	// 获取正确的调用方 PC 值，用于准确的源码位置
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip: runtime.Callers, log, Debug/Info/Warn/Error
	record := slog.NewRecord(time.Now(), slogLevel, msg, pcs[0])
	record.AddAttrs(attrs...)

	_ = l.handler.Handle(context.Background(), record)
}
