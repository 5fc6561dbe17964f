package clog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"Warn":  WarnLevel,
		"error": ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) 返回错误: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v，期望 %v", in, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) 应返回错误")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	if _, err := New(&Config{Format: "xml"}); err == nil {
		t.Error("非法 Format 应返回错误")
	}
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Error("非法 Level 应返回错误")
	}
}

func TestJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, err := New(&Config{Level: "debug", Format: "json", Output: path},
		WithNamespace("govlink", "test"))
	if err != nil {
		t.Fatalf("New 返回错误: %v", err)
	}

	logger.Info("request sent", String("source", "pncp"), Int("status", 200))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("日志不是合法 JSON: %v", err)
	}

	if entry["msg"] != "request sent" {
		t.Errorf("msg = %v，期望 request sent", entry["msg"])
	}
	if entry["namespace"] != "govlink.test" {
		t.Errorf("namespace = %v，期望 govlink.test", entry["namespace"])
	}
	if entry["source"] != "pncp" {
		t.Errorf("source = %v，期望 pncp", entry["source"])
	}
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, err := New(&Config{Level: "error", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New 返回错误: %v", err)
	}

	logger.Info("should be filtered")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Fatalf("SetLevel 返回错误: %v", err)
	}
	logger.Debug("now visible")

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "should be filtered") {
		t.Error("error 级别下 Info 日志不应输出")
	}
	if !strings.Contains(out, "now visible") {
		t.Error("调整级别后 Debug 日志应输出")
	}
}

func TestWithFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, _ := New(&Config{Level: "info", Format: "json", Output: path})

	child := logger.With(String("source", "comprasgov"))
	child.Info("tagged")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "comprasgov") {
		t.Error("子 Logger 应携带预设字段")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	// 所有调用都应是空操作，不 panic
	logger.Info("ignored")
	logger.With(String("k", "v")).WithNamespace("x").Error("ignored")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Errorf("Discard().SetLevel 返回错误: %v", err)
	}
}
