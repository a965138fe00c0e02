package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingBotToken = errors.New("telegram.bot_token is not set")

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	API       API            `mapstructure:"api"`
	Bybit     Bybit          `mapstructure:"bybit"`
	Levels    Levels         `mapstructure:"levels"`
	Cache     Cache          `mapstructure:"cache"`
	Bot       Bot            `mapstructure:"bot"`
	Scheduler Scheduler      `mapstructure:"scheduler"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Bybit struct {
	BaseURL             string        `mapstructure:"base_url"`
	Category            string        `mapstructure:"category"`
	QuoteAsset          string        `mapstructure:"quote_asset"`
	Timeout             time.Duration `mapstructure:"timeout"`
	RetryCount          int           `mapstructure:"retry_count"`
	RetryWaitTime       time.Duration `mapstructure:"retry_wait_time"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	UserAgent           string        `mapstructure:"user_agent"`
}

// Levels controls the candle window fed to the level detector.
type Levels struct {
	Interval string `mapstructure:"interval"`
	Limit    int    `mapstructure:"limit"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	TickerExpiration  time.Duration `mapstructure:"ticker_expiration"`
}

type Bot struct {
	ReplyOnFailure  bool          `mapstructure:"reply_on_failure"`
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	PollingInterval time.Duration `mapstructure:"polling_interval"`
}

type Scheduler struct {
	Broadcasts []Broadcast `mapstructure:"broadcasts"`
}

// Broadcast pushes a snapshot of every coin to ChatID on each Spec tick.
type Broadcast struct {
	Spec   string   `mapstructure:"spec"`
	ChatID int64    `mapstructure:"chat_id"`
	Coins  []string `mapstructure:"coins"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	AlertChatID               string        `mapstructure:"alert_chat_id"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxChatRequestPerSecond   int           `mapstructure:"max_chat_request_per_second"`
	RatelimitExpireDuration   time.Duration `mapstructure:"ratelimit_expire_duration"`
	RateLimitCleanupDuration  time.Duration `mapstructure:"rate_limit_cleanup_duration"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("api.port", 8080)

	v.SetDefault("bybit.base_url", "https://api.bybit.com")
	v.SetDefault("bybit.category", "linear")
	v.SetDefault("bybit.quote_asset", "USDT")
	v.SetDefault("bybit.timeout", 10*time.Second)
	v.SetDefault("bybit.retry_count", 1)
	v.SetDefault("bybit.retry_wait_time", 500*time.Millisecond)
	v.SetDefault("bybit.max_request_per_minute", 600)
	v.SetDefault("bybit.user_agent", "Mozilla/5.0")

	v.SetDefault("levels.interval", "240")
	v.SetDefault("levels.limit", 100)

	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.ticker_expiration", 2*time.Second)

	v.SetDefault("bot.reply_on_failure", false)
	v.SetDefault("bot.command_timeout", 30*time.Second)
	v.SetDefault("bot.polling_interval", 10*time.Second)

	v.SetDefault("telegram.timeout_duration", 10*time.Second)
	v.SetDefault("telegram.max_global_request_per_second", 30)
	v.SetDefault("telegram.max_chat_request_per_second", 1)
	v.SetDefault("telegram.ratelimit_expire_duration", 10*time.Minute)
	v.SetDefault("telegram.rate_limit_cleanup_duration", time.Minute)

	// registered so AutomaticEnv picks up TELEGRAM_BOT_TOKEN without a yaml entry
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.alert_chat_id", "")
	v.SetDefault("telegram.webhook_url", "")
}

// Load reads config.yaml from the working directory, then overlays the
// environment. A .env file, when present, is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	fmt.Println("Viper settings for environment variables:")
	for _, key := range v.AllKeys() {
		if v.IsSet(key) {
			fmt.Printf("  Key: %s, Value: %v\n", key, maskSecret(key, v.Get(key)))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return ErrMissingBotToken
	}
	if c.Levels.Limit <= 0 {
		return fmt.Errorf("levels.limit must be positive, got %d", c.Levels.Limit)
	}
	if c.Bybit.MaxRequestPerMinute <= 0 {
		return fmt.Errorf("bybit.max_request_per_minute must be positive, got %d", c.Bybit.MaxRequestPerMinute)
	}
	return nil
}

func maskSecret(key string, value interface{}) interface{} {
	if strings.Contains(key, "token") || strings.Contains(key, "secret") {
		return "******"
	}
	return value
}
