package xerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	// nil 错误应返回 nil
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v，期望 nil", err)
	}

	// 包装后的错误应包含消息并保留错误链
	base := errors.New("base error")
	wrapped := Wrap(base, "context")
	if wrapped == nil {
		t.Fatal("Wrap(err) = nil，期望非 nil")
	}
	if wrapped.Error() != "context: base error" {
		t.Errorf("Wrap(err).Error() = %q，期望 %q", wrapped.Error(), "context: base error")
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWrapf(t *testing.T) {
	if err := Wrapf(nil, "source %s", "pncp"); err != nil {
		t.Errorf("Wrapf(nil) = %v，期望 nil", err)
	}

	base := errors.New("not found")
	wrapped := Wrapf(base, "source %s", "pncp")
	if wrapped.Error() != "source pncp: not found" {
		t.Errorf("Wrapf(err).Error() = %q，期望 %q", wrapped.Error(), "source pncp: not found")
	}
}

func TestWithCode(t *testing.T) {
	if err := WithCode(nil, "CODE"); err != nil {
		t.Errorf("WithCode(nil) = %v，期望 nil", err)
	}

	base := errors.New("upstream unavailable")
	coded := WithCode(base, "ERR_UPSTREAM")
	if GetCode(coded) != "ERR_UPSTREAM" {
		t.Errorf("GetCode = %q，期望 ERR_UPSTREAM", GetCode(coded))
	}
	if !errors.Is(coded, base) {
		t.Error("错误链应保留原始错误")
	}

	// 嵌套包装后依然可以取出错误码
	nested := Wrap(coded, "call failed")
	if GetCode(nested) != "ERR_UPSTREAM" {
		t.Errorf("嵌套后 GetCode = %q，期望 ERR_UPSTREAM", GetCode(nested))
	}
}

func TestGetCodeWithoutCode(t *testing.T) {
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode(plain) = %q，期望空字符串", code)
	}
}
