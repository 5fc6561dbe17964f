package testkit

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// Upstream 可控的模拟政府 API 上游
//
// Hits 记录实际触达的请求数，Failing 可随时切换故障注入。
type Upstream struct {
	Server  *httptest.Server
	Hits    atomic.Int64
	Failing atomic.Bool
}

// URL 上游基础地址
func (u *Upstream) URL() string {
	return u.Server.URL
}

// NewUpstream 启动一个模拟上游，正常时返回给定的 JSON 负载
//
// Failing 置为 true 时返回 502。生命周期由 t.Cleanup 管理。
func NewUpstream(t *testing.T, payload string) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.Hits.Add(1)
		if u.Failing.Load() {
			http.Error(w, `{"error": "service unavailable"}`, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(u.Server.Close)
	return u
}

// NewSlowUpstream 启动一个响应缓慢的模拟上游
//
// 每个请求等待 delay 后才响应；请求被取消时立即退出，
// 不会在测试结束后残留阻塞的 handler。
func NewSlowUpstream(t *testing.T, delay time.Duration, payload string) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.Hits.Add(1)
		select {
		case <-time.After(delay):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(u.Server.Close)
	return u
}

// NewFlakyUpstream 启动一个间歇故障的模拟上游
//
// 前 failures 个请求返回 503，之后恢复正常。
func NewFlakyUpstream(t *testing.T, failures int64, payload string) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.Hits.Add(1) <= failures {
			http.Error(w, `{"error": "temporarily unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(u.Server.Close)
	return u
}
