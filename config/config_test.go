package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testYAML = `
log:
  level: debug
  format: json

cache:
  capacity: 256
  ttl: 30s

sources:
  pncp:
    base_url: https://pncp.gov.br/api
    timeout: 5s
    breaker:
      error_threshold_percentage: 40
      volume_threshold: 5
      reset_timeout: 15s
    retry:
      max_retries: 2
      initial_backoff: 200ms
  transparencia:
    base_url: https://api.portaldatransparencia.gov.br
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "govlink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

func newTestLoader(t *testing.T, dir string) Loader {
	t.Helper()
	loader, err := New(WithConfigPaths(dir))
	require.NoError(t, err)
	return loader
}

func TestSettingsBeforeLoad(t *testing.T) {
	loader, err := New()
	require.NoError(t, err)

	_, err = loader.Settings()
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())
	require.NoError(t, loader.Load(context.Background()))

	settings, err := loader.Settings()
	require.NoError(t, err)
	require.Empty(t, settings.Sources)
}

func TestLoadYAMLSettings(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	settings, err := loader.Settings()
	require.NoError(t, err)

	require.Equal(t, "debug", settings.Log.Level)
	require.Equal(t, 256, settings.Cache.Capacity)
	require.Equal(t, 30*time.Second, settings.Cache.TTL)
	require.Len(t, settings.Sources, 2)

	pncp := settings.Sources["pncp"]
	require.Equal(t, "https://pncp.gov.br/api", pncp.BaseURL)
	require.Equal(t, 5*time.Second, pncp.Timeout)
	require.Equal(t, float64(40), pncp.Breaker.ErrorThresholdPercentage)
	require.Equal(t, uint64(5), pncp.Breaker.VolumeThreshold)
	require.Equal(t, 15*time.Second, pncp.Breaker.ResetTimeout)
	require.Equal(t, 2, pncp.Retry.MaxRetries)
	require.Equal(t, 200*time.Millisecond, pncp.Retry.InitialBackoff)
}

func TestSourceDefaultsBackfilled(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	settings, err := loader.Settings()
	require.NoError(t, err)

	tr := settings.Sources["transparencia"]
	require.Equal(t, "transparencia", string(tr.Source), "来源标识默认取配置键名")
	require.Equal(t, "transparencia", tr.Breaker.Name)
}

func TestValidationRejectsMissingBaseURL(t *testing.T) {
	dir := writeTestConfig(t, `
sources:
  broken:
    timeout: 5s
`)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	_, err := loader.Settings()
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidationRejectsBadThreshold(t *testing.T) {
	dir := writeTestConfig(t, `
sources:
  pncp:
    base_url: https://pncp.gov.br/api
    breaker:
      error_threshold_percentage: 150
`)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	_, err := loader.Settings()
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestEnvOverride(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	t.Setenv("GOVLINK_LOG_LEVEL", "warn")

	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	require.Equal(t, "warn", loader.Get("log.level"), "环境变量应覆盖配置文件")
}

func TestDotEnvLoaded(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("GOVLINK_METRICS_PORT=9187\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GOVLINK_METRICS_PORT") })

	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	require.Equal(t, "9187", loader.Get("metrics.port"))
}

func TestUnmarshalKey(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	var cacheCfg struct {
		Capacity int `mapstructure:"capacity"`
	}
	require.NoError(t, loader.UnmarshalKey("cache", &cacheCfg))
	require.Equal(t, 256, cacheCfg.Capacity)
}

func TestWatchCancelClosesChannel(t *testing.T) {
	dir := writeTestConfig(t, testYAML)
	loader := newTestLoader(t, dir)
	require.NoError(t, loader.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := loader.Watch(ctx)
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "取消订阅后通道应被关闭")
}
