package config

import (
	"github.com/ceyewan/govlink/cache"
	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/govapi"
	"github.com/ceyewan/govlink/metrics"
	"github.com/ceyewan/govlink/xerrors"
)

// Settings govlink 完整配置
type Settings struct {
	// Log 日志配置
	Log clog.Config `json:"log" yaml:"log" mapstructure:"log"`

	// Metrics 指标配置
	Metrics metrics.Config `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// Cache 响应缓存配置
	Cache cache.Config `json:"cache" yaml:"cache" mapstructure:"cache"`

	// Sources 各上游来源的客户端配置，键为来源名（如 "pncp"）
	Sources map[string]govapi.Config `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// validate 验证并填充各来源的默认值（内部方法）
//
// 来源名会回填到 Source 与 Breaker.Name，保证日志与指标
// 始终能区分不同上游。
func (s *Settings) validate() error {
	for name, src := range s.Sources {
		if src.BaseURL == "" {
			return xerrors.Wrapf(ErrValidationFailed, "source %q: base_url is required", name)
		}
		if src.Source == "" {
			src.Source = govapi.Source(name)
		}
		if src.Breaker.Name == "" {
			src.Breaker.Name = name
		}
		if src.Timeout < 0 {
			return xerrors.Wrapf(ErrValidationFailed, "source %q: timeout must not be negative", name)
		}
		if src.Breaker.ErrorThresholdPercentage < 0 || src.Breaker.ErrorThresholdPercentage > 100 {
			return xerrors.Wrapf(ErrValidationFailed, "source %q: error threshold out of range", name)
		}
		if src.Retry.MaxRetries < 0 {
			return xerrors.Wrapf(ErrValidationFailed, "source %q: max retries must not be negative", name)
		}
		s.Sources[name] = src
	}
	return nil
}
