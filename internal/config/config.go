package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"rugshield/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Bot       BotConfig       `mapstructure:"bot"`
	Watch     WatchConfig     `mapstructure:"watch"`
	AI        AIConfig        `mapstructure:"ai"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. An empty DSN runs
// the application on the in-memory store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ProvidersConfig groups upstream data source settings.
type ProvidersConfig struct {
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko"`
	Etherscan EtherscanConfig `mapstructure:"etherscan"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	// RequestTimeout bounds one full fetch through the fallback chain.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CoinGeckoConfig covers market data access.
type CoinGeckoConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// EtherscanConfig covers explorer metadata access.
type EtherscanConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// EthereumConfig covers on-chain data access.
type EthereumConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	BlockWindow    uint64        `mapstructure:"block_window"`
	MaxEvents      int           `mapstructure:"max_events"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	KnownScammers  []string      `mapstructure:"known_scammers"`
}

// TwitterConfig covers social search access.
type TwitterConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	BearerToken    string        `mapstructure:"bearer_token"`
	MaxResults     int           `mapstructure:"max_results"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// BotConfig describes the Telegram command transport.
type BotConfig struct {
	Token          string        `mapstructure:"token"`
	APIBase        string        `mapstructure:"api_base"`
	PollTimeout    int           `mapstructure:"poll_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

// WatchConfig governs the periodic re-analysis loop.
type WatchConfig struct {
	Addresses       []string       `mapstructure:"addresses"`
	Interval        time.Duration  `mapstructure:"interval"`
	AlignToStart    bool           `mapstructure:"align_to_start"`
	StartupDelay    time.Duration  `mapstructure:"startup_delay"`
	AdvisoryLockKey int64          `mapstructure:"advisory_lock_key"`
	MinSeverity     string         `mapstructure:"min_severity"`
	Telegram        TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes alert delivery parameters.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// AIConfig enables optional model commentary. An empty API key disables it.
type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RUGSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rugshield")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("providers.request_timeout", "30s")
	v.SetDefault("providers.coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("providers.coingecko.request_timeout", "10s")
	v.SetDefault("providers.coingecko.user_agent", "rugshield/1.0")
	v.SetDefault("providers.etherscan.base_url", "https://api.etherscan.io/api")
	v.SetDefault("providers.etherscan.request_timeout", "10s")
	v.SetDefault("providers.ethereum.block_window", uint64(10_000))
	v.SetDefault("providers.ethereum.max_events", 1_000)
	v.SetDefault("providers.ethereum.request_timeout", "15s")
	v.SetDefault("providers.twitter.base_url", "https://api.twitter.com")
	v.SetDefault("providers.twitter.max_results", 100)
	v.SetDefault("providers.twitter.request_timeout", "10s")

	v.SetDefault("bot.api_base", "https://api.telegram.org")
	v.SetDefault("bot.poll_timeout", 30)
	v.SetDefault("bot.command_timeout", "90s")

	v.SetDefault("watch.interval", "15m")
	v.SetDefault("watch.align_to_start", true)
	v.SetDefault("watch.startup_delay", "0s")
	v.SetDefault("watch.advisory_lock_key", int64(0x72756773))
	v.SetDefault("watch.min_severity", "high")
	v.SetDefault("watch.telegram.enabled", false)
	v.SetDefault("watch.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("ai.model", "")

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

var validSeverities = map[string]struct{}{
	"minimal": {}, "low": {}, "medium": {}, "high": {}, "extreme": {},
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Watch.MinSeverity != "" {
		if _, ok := validSeverities[c.Watch.MinSeverity]; !ok {
			return fmt.Errorf("watch.min_severity %q is not a risk level", c.Watch.MinSeverity)
		}
	}
	if c.Watch.Telegram.Enabled {
		if c.Watch.Telegram.BotToken == "" {
			return fmt.Errorf("watch.telegram.bot_token is required")
		}
		if c.Watch.Telegram.ChatID == "" {
			return fmt.Errorf("watch.telegram.chat_id is required")
		}
	}
	if c.Bot.PollTimeout < 0 {
		return fmt.Errorf("bot.poll_timeout cannot be negative")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
