package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CartDBPath     string        `mapstructure:"CART_DB_PATH"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	CheckoutDelay  time.Duration `mapstructure:"CHECKOUT_DELAY"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("API_BASE_URL", "https://fakestoreapi.com")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("CART_DB_PATH", "shopflow.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("CHECKOUT_DELAY", 2*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
}

type ConfigHolder struct {
	mu     sync.RWMutex
	config *Config
	v      *viper.Viper
}

// Load 讀取設定
// 優先序: 環境變數 > 設定檔 > 預設值
// path為空時只使用環境變數與預設值
// 設定檔存在時會watch, 變更後自動reload
func Load(path string) (*ConfigHolder, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}

	holder := &ConfigHolder{config: cf, v: v}

	if path != "" {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			holder.reload()
		})
	}

	return holder, nil
}

func (h *ConfigHolder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

func (h *ConfigHolder) reload() {
	cf := &Config{}
	if err := h.v.Unmarshal(cf); err != nil {
		// reload失敗保留舊設定
		return
	}
	h.mu.Lock()
	h.config = cf
	h.mu.Unlock()
}
