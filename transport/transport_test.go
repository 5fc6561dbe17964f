package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, baseURL string, timeout time.Duration) Executor {
	t.Helper()
	exec, err := New(&Config{
		BaseURL: baseURL,
		Timeout: timeout,
	})
	require.NoError(t, err)
	return exec
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)
}

func TestNewEmptyBaseURL(t *testing.T) {
	_, err := New(&Config{})
	require.ErrorIs(t, err, ErrBaseURLEmpty)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{BaseURL: "https://pncp.gov.br/api"}
	require.NoError(t, cfg.validate())
	require.Equal(t, defaultTimeout, cfg.Timeout)
	require.Equal(t, int64(defaultMaxBodySize), cfg.MaxBodySize)
	require.Equal(t, "govlink", cfg.UserAgent)
}

func TestSuccessfulJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "nome": "Prefeitura Municipal"}`))
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, time.Second)
	resp, err := exec.Do(context.Background(), &Request{Path: "/v1/orgaos/42"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, resp.IsJSON())

	var out struct {
		ID   int    `json:"id"`
		Nome string `json:"nome"`
	}
	require.NoError(t, resp.JSON(&out))
	require.Equal(t, 42, out.ID)
	require.Equal(t, "Prefeitura Municipal", out.Nome)
}

func TestHTTPErrorResolvesImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	// 超时配置得很长，HTTP 错误必须立即返回而不是等到超时
	exec := newTestExecutor(t, srv.URL, 10*time.Second)

	start := time.Now()
	_, err := exec.Do(context.Background(), &Request{Path: "/v1/contratos"})
	elapsed := time.Since(start)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.Equal(t, "/v1/contratos", httpErr.Path)
	require.Less(t, elapsed, 500*time.Millisecond, "HTTP 错误应立即返回，远快于超时")

	// HTTP 错误不是瞬时失败，也不是超时
	require.False(t, IsTimeout(err))
	require.False(t, IsTransient(err))
}

func TestTimeoutAbortsSlowResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			_, _ = w.Write([]byte(`{"late": true}`))
		case <-r.Context().Done():
			// 客户端超时取消后，在途请求被真正中止
		}
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, 300*time.Millisecond)

	start := time.Now()
	_, err := exec.Do(context.Background(), &Request{Path: "/v1/slow"})
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 300*time.Millisecond, timeoutErr.Timeout)
	// 调用方必须在超时 + 少量调度开销内收到结果，绝不等到上游的 5 秒
	require.Less(t, elapsed, 800*time.Millisecond)

	// 超时错误链上携带 context.DeadlineExceeded，供熔断器分类
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.True(t, IsTimeout(err))
	require.True(t, IsTransient(err))
}

func TestTransportErrorOnConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立即关闭，制造连接失败

	exec := newTestExecutor(t, srv.URL, time.Second)
	_, err := exec.Do(context.Background(), &Request{Path: "/v1/unreachable"})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.True(t, IsTransient(err))
	require.False(t, IsTimeout(err))
}

func TestMalformedJSONDoesNotPanic(t *testing.T) {
	raw := `{"data": "incomplete`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, time.Second)
	resp, err := exec.Do(context.Background(), &Request{Path: "/v1/malformed"})
	require.NoError(t, err, "畸形负载不应导致调用失败，原始字节仍可用")
	require.Equal(t, raw, string(resp.Body))

	var out map[string]any
	jsonErr := resp.JSON(&out)
	var parseErr *ParseError
	require.ErrorAs(t, jsonErr, &parseErr)
}

func TestBinaryPayloadPassthrough(t *testing.T) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, time.Second)
	resp, err := exec.Do(context.Background(), &Request{Path: "/v1/binary"})
	require.NoError(t, err)
	require.False(t, resp.IsJSON())
	require.True(t, bytes.Equal(payload, resp.Body))
}

func TestJSONNullLiteral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, time.Second)
	resp, err := exec.Do(context.Background(), &Request{Path: "/v1/null"})
	require.NoError(t, err)

	var out *struct{ ID int }
	require.NoError(t, resp.JSON(&out))
	require.Nil(t, out)
}

func TestLargePayloadSequential(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 5<<20) // 5 MiB
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, 10*time.Second)

	// 连续处理多个大负载，每次调用结束后旧响应即可被回收
	for i := 0; i < 5; i++ {
		resp, err := exec.Do(context.Background(), &Request{Path: "/v1/large"})
		require.NoError(t, err)
		require.Len(t, resp.Body, 5<<20)
	}
}

func TestJSONRoundTrip2MB(t *testing.T) {
	content := strings.Repeat("x", 2<<20)
	doc := map[string]string{"conteudo": content}
	encoded, err := json.Marshal(doc)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(encoded)
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, 10*time.Second)
	resp, err := exec.Do(context.Background(), &Request{Path: "/v1/roundtrip"})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, resp.JSON(&out))
	require.Equal(t, len(content), len(out["conteudo"]), "2MB 负载内容长度应完整保留")
}

func TestBodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("b"), 10<<10))
	}))
	defer srv.Close()

	exec, err := New(&Config{
		BaseURL:     srv.URL,
		Timeout:     time.Second,
		MaxBodySize: 1 << 10,
	})
	require.NoError(t, err)

	_, err = exec.Do(context.Background(), &Request{Path: "/v1/huge"})
	require.ErrorIs(t, err, ErrBodyTooLarge)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestRequestHeadersAndQuery(t *testing.T) {
	var gotUA, gotCustom, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.Query().Get("pagina")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	exec := newTestExecutor(t, srv.URL, time.Second)

	header := http.Header{}
	header.Set("X-Request-ID", "abc-123")
	query := url.Values{}
	query.Set("pagina", "2")

	_, err := exec.Do(context.Background(), &Request{
		Path:   "/v1/contratacoes",
		Query:  query,
		Header: header,
	})
	require.NoError(t, err)
	require.Equal(t, "govlink", gotUA)
	require.Equal(t, "abc-123", gotCustom)
	require.Equal(t, "2", gotQuery)
}

func TestNilRequest(t *testing.T) {
	exec := newTestExecutor(t, "http://localhost:1", time.Second)
	_, err := exec.Do(context.Background(), nil)
	require.ErrorIs(t, err, ErrRequestNil)
}
