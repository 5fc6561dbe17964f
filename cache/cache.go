// Package cache 提供面向 GET 响应的本地内存缓存。
//
// cache 基于 otter 实现，按「方法 + 路径 + 查询参数」作为键缓存完整的
// 响应对象，用于在上游 API 限流或不稳定时减少出站调用。只有成功的
// GET 响应才应进入缓存，写入策略由调用方（govapi）控制。
//
// ## 基本使用
//
//	store, _ := cache.New(&cache.Config{
//	    Capacity: 1024,
//	    TTL:      time.Minute,
//	}, cache.WithLogger(logger))
//
//	key := cache.Key("pncp", http.MethodGet, "/v1/orgaos", query)
//	if resp, ok := store.Get(ctx, key); ok {
//	    return resp, nil
//	}
package cache

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/transport"
	"github.com/ceyewan/govlink/xerrors"
)

// ErrConfigNil 配置为空
var ErrConfigNil = xerrors.New("cache: config is nil")

// Store 响应缓存接口
type Store interface {
	// Get 查找缓存的响应，未命中或已过期时返回 false
	Get(ctx context.Context, key string) (*transport.Response, bool)

	// Set 写入响应，ttl <= 0 时使用配置的默认 TTL
	Set(ctx context.Context, key string, resp *transport.Response, ttl time.Duration)

	// Delete 删除指定键
	Delete(ctx context.Context, key string)

	// Len 当前缓存条目数
	Len() int

	// Close 停止后台清理协程
	Close() error
}

// Key 构造缓存键
//
// source 区分不同上游来源，多个客户端共享同一个 Store 时路径相同
// 也不会串数据。查询参数经过 Encode 排序，参数顺序不同的等价请求
// 命中同一条目。
func Key(source, method, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(source)
	b.WriteByte(' ')
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(path)
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

// New 创建响应缓存实例
//
// 参数:
//   - cfg: 缓存配置（Capacity、TTL）
//   - opts: 可选参数 (Logger, Meter)
func New(cfg *Config, opts ...Option) (Store, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	logger := opt.logger
	if logger == nil {
		logger = clog.Discard()
	}

	return newStore(cfg, logger, opt.meter)
}
