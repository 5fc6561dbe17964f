package cache

// 指标名称
const (
	// MetricHitsTotal 缓存命中总数
	MetricHitsTotal = "cache_hits_total"

	// MetricMissesTotal 缓存未命中总数
	MetricMissesTotal = "cache_misses_total"
)
