package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/metrics"
	"github.com/ceyewan/govlink/transport"
	"github.com/ceyewan/govlink/xerrors"
)

// store 基于 otter 的缓存实现（非导出）
type store struct {
	cfg    *Config
	cache  *otter.Cache[string, *transport.Response]
	logger clog.Logger

	hits   metrics.Counter
	misses metrics.Counter
}

// newStore 创建缓存实例（内部函数）
func newStore(cfg *Config, logger clog.Logger, meter metrics.Meter) (Store, error) {
	// 写入过期策略：TTL 从写入起算，读取不续期，
	// 保证缓存内容的新鲜度有确定上界
	c, err := otter.New(&otter.Options[string, *transport.Response]{
		MaximumSize:      cfg.Capacity,
		StatsRecorder:    stats.NewCounter(),
		ExpiryCalculator: otter.ExpiryWriting[string, *transport.Response](cfg.TTL),
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "cache: build otter cache")
	}

	s := &store{
		cfg:    cfg,
		cache:  c,
		logger: logger,
	}

	if meter != nil {
		if s.hits, err = meter.Counter(MetricHitsTotal, "Cache hits"); err != nil {
			return nil, xerrors.Wrap(err, "cache: create hit counter")
		}
		if s.misses, err = meter.Counter(MetricMissesTotal, "Cache misses"); err != nil {
			return nil, xerrors.Wrap(err, "cache: create miss counter")
		}
	}

	return s, nil
}

func (s *store) Get(ctx context.Context, key string) (*transport.Response, bool) {
	resp, ok := s.cache.GetIfPresent(key)
	if !ok {
		if s.misses != nil {
			s.misses.Inc(ctx)
		}
		return nil, false
	}
	if s.hits != nil {
		s.hits.Inc(ctx)
	}
	s.logger.Debug("cache hit", clog.String("key", key))
	return resp, true
}

func (s *store) Set(ctx context.Context, key string, resp *transport.Response, ttl time.Duration) {
	if resp == nil {
		return
	}
	s.cache.Set(key, resp)
	if ttl > 0 && ttl != s.cfg.TTL {
		s.cache.SetExpiresAfter(key, ttl)
	}
}

func (s *store) Delete(ctx context.Context, key string) {
	s.cache.Invalidate(key)
}

func (s *store) Len() int {
	return s.cache.EstimatedSize()
}

func (s *store) Close() error {
	s.cache.StopAllGoroutines()
	return nil
}
