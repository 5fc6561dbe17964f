package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/govlink/clog"
	"github.com/ceyewan/govlink/xerrors"
)

// loader 实现 Loader 接口（非导出）
type loader struct {
	v      *viper.Viper
	opts   *Options
	logger clog.Logger

	mu       sync.RWMutex
	loaded   bool
	watchers []chan Event
}

// newLoader 创建配置加载器实例（内部函数）
func newLoader(opts *Options) (Loader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = clog.Discard()
	}
	return &loader{
		v:      viper.New(),
		opts:   opts,
		logger: logger,
	}, nil
}

// Load 从所有来源加载配置并启动文件监听
//
// 优先级：环境变量 > .env > 配置文件。配置文件缺失不是错误，
// 此时全部配置来自环境变量。
func (l *loader) Load(ctx context.Context) error {
	l.v.SetConfigName(l.opts.Name)
	l.v.SetConfigType(l.opts.FileType)
	for _, path := range l.opts.Paths {
		l.v.AddConfigPath(path)
	}

	// 环境变量最高优先级，GOVLINK_SOURCES_PNCP_BASE_URL 之类的
	// 键通过替换规则映射到嵌套配置
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.loadDotEnv()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !xerrors.As(err, &notFound) {
			return xerrors.Wrapf(err, "config: read config file %s", l.opts.Name)
		}
		l.logger.Warn("no configuration file found, using env only",
			clog.String("name", l.opts.Name))
	} else {
		l.logger.Info("configuration loaded",
			clog.String("file", l.v.ConfigFileUsed()))
	}

	l.mu.Lock()
	l.loaded = true
	l.mu.Unlock()

	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.logger.Info("configuration file changed", clog.String("file", e.Name))
		l.notifyWatchers(e.Name)
	})
	l.v.WatchConfig()

	return nil
}

// loadDotEnv 尝试从搜索路径加载 .env 文件（内部方法）
// .env 缺失是常态，不作为错误处理
func (l *loader) loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		l.logger.Debug("loaded .env file", clog.String("path", ".env"))
	}
	for _, path := range l.opts.Paths {
		envPath := filepath.Join(path, ".env")
		if err := godotenv.Load(envPath); err == nil {
			l.logger.Debug("loaded .env file", clog.String("path", envPath))
		}
	}
}

// Settings 返回解析并验证后的完整配置
func (l *loader) Settings() (*Settings, error) {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if !loaded {
		return nil, ErrNotLoaded
	}

	settings := &Settings{}
	if err := l.v.Unmarshal(settings); err != nil {
		return nil, xerrors.Wrap(err, "config: unmarshal settings")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Get 获取原始配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// UnmarshalKey 将指定 Key 的配置反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	return l.v.UnmarshalKey(key, v)
}

// Watch 订阅配置文件变更事件
func (l *loader) Watch(ctx context.Context) (<-chan Event, error) {
	l.mu.Lock()
	ch := make(chan Event, 10)
	l.watchers = append(l.watchers, ch)
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.removeWatcher(ch)
	}()

	return ch, nil
}

// removeWatcher 移除并关闭订阅通道（内部方法）
func (l *loader) removeWatcher(ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, c := range l.watchers {
		if c == ch {
			l.watchers = append(l.watchers[:i], l.watchers[i+1:]...)
			close(ch)
			return
		}
	}
}

// notifyWatchers 通知所有订阅者（内部方法）
func (l *loader) notifyWatchers(file string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	event := Event{File: file, Timestamp: time.Now()}
	for _, ch := range l.watchers {
		select {
		case ch <- event:
		default:
			l.logger.Warn("watch channel full, event dropped", clog.String("file", file))
		}
	}
}
