package clog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别类型
//
// 支持4个级别，按严重程度递增：
//
//	DebugLevel: 调试信息，通常只在开发环境使用
//	InfoLevel:  一般信息，记录正常的业务流程
//	WarnLevel:  警告信息，表示潜在问题
//	ErrorLevel: 错误信息，表示程序出错但可恢复
type Level int

const (
	DebugLevel Level = iota - 4 // 调试级别
	InfoLevel                   // 信息级别
	WarnLevel                   // 警告级别
	ErrorLevel                  // 错误级别
)

// String 返回 Level 的字符串表示
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", l)
	}
}

// ParseLevel 将字符串解析为 Level（不区分大小写）
//
// 如果无法解析，返回 InfoLevel 和错误信息。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}

// toSlogLevel 将 Level 映射为 slog.Level（内部使用）
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
