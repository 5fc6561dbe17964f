// Package xerrors 提供标准化错误处理工具。
package xerrors

import (
	"errors"
	"fmt"
)

// New 创建一个新错误。
func New(msg string) error {
	return errors.New(msg)
}

// Errorf 创建一个格式化错误，支持 %w 包装。
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Wrap 用上下文信息包装错误，保留错误链。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is 等价于 errors.Is，便于统一导入。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As 等价于 errors.As。
func As(err error, target any) bool {
	return errors.As(err, target)
}

// WithCode 用错误码包装错误。
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// CodedError 带有机器可读错误码的错误。
type CodedError struct {
	Code  string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取错误码，没有则返回空字符串。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
