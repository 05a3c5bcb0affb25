// 文件: pkg/config/config.go
// Config - 全局运行参数，支持从 TOML 文件加载并热更新
//
// 本仓库没有自己的配置加载套路，这里借用 go-arcade-arcade 的
// pkg/conf/conf.go 模式：viper 读 TOML + fsnotify 监听变更，
// 变更时反序列化进同一个 Config 实例。

package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 是进程启动和热重载共用的一份运行参数。
type Config struct {
	NumSymbols      uint32  `mapstructure:"num_symbols"`
	RingCapacity    int     `mapstructure:"ring_capacity"`
	WindowMs        uint64  `mapstructure:"window_ms"`
	ReturnThreshold float64 `mapstructure:"return_threshold_pct"`

	CooldownMs     uint64 `mapstructure:"cooldown_ms"`
	MaxOpenIntents uint32 `mapstructure:"max_open_intents"`
	InitialBudget  uint64 `mapstructure:"initial_budget"`

	IntentQueueCap int `mapstructure:"intent_queue_capacity"`
	EventQueueCap  int `mapstructure:"event_queue_capacity"`

	AckDelayUs  uint64 `mapstructure:"ack_delay_us"`
	FillDelayUs uint64 `mapstructure:"fill_delay_us"`

	RecomputeEveryN int `mapstructure:"recompute_every_n"`

	HistMaxValueUs int64 `mapstructure:"hist_max_value_us"`
	HistSigFigs    int   `mapstructure:"hist_sig_figs"`

	// TargetP95Ms 是软门限：p95 超过它只报 WARN，不让进程失败退出。
	TargetP95Ms int64 `mapstructure:"target_p95_ms"`

	RedisAddr string `mapstructure:"redis_addr"`
	NatsURL   string `mapstructure:"nats_url"`
}

// Default 返回一组适合本地合成基准测试的默认值。
func Default() Config {
	return Config{
		NumSymbols:      300,
		RingCapacity:    4096,
		WindowMs:        60_000,
		ReturnThreshold: 5.0,
		CooldownMs:      500,
		MaxOpenIntents:  10,
		InitialBudget:   1_000,
		IntentQueueCap:  4096,
		EventQueueCap:   8192,
		AckDelayUs:      500,
		FillDelayUs:     1500,
		RecomputeEveryN: 16,
		HistMaxValueUs:  100_000,
		HistSigFigs:     3,
		TargetP95Ms:     15,
	}
}

// Watcher 包装一个 viper 实例，负责从 TOML 文件加载 Config 并在文件变更时
// 把新值反序列化进同一个指针，调用方通过 Current() 原子地拿到最新值。
type Watcher struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cur Config
	onChange func(Config)
}

// NewWatcher 从 confDir 下的 config.toml 加载配置，并开始监听文件变化。
// 找不到文件或解析失败直接返回错误；调用方可以选择退回到 Default()。
func NewWatcher(confDir string, onChange func(Config)) (*Watcher, error) {
	v := viper.New()
	v.AddConfigPath(confDir)
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read config file: %w", err)
	}

	w := &Watcher{v: v, onChange: onChange}
	if err := v.Unmarshal(&w.cur); err != nil {
		return nil, fmt.Errorf("config: unmarshal config file: %w", err)
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("config: file changed, reloading: %s", e.Name)

		var next Config
		if err := v.Unmarshal(&next); err != nil {
			log.Printf("config: reload failed, keeping previous config: %v", err)
			return
		}

		w.mu.Lock()
		w.cur = next
		w.mu.Unlock()

		if w.onChange != nil {
			w.onChange(next)
		}
	})

	return w, nil
}

// Current 返回当前生效的配置快照。
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cur
}
