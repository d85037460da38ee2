package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/macyb27/Aether-Trader-Mobile/internal/collector"
)

// Supported data providers.
const (
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
	ProviderREST      = "rest"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Period   string `yaml:"period"`
	} `yaml:"data_source"`
	Training struct {
		Symbols       []string `yaml:"symbols"`
		Episodes      int      `yaml:"episodes"`
		Seed          int64    `yaml:"seed"`
		Workers       int      `yaml:"workers"`
		ProgressEvery int      `yaml:"progress_every"`
	} `yaml:"training"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Output struct {
		JSONPath string `yaml:"json_path"`
	} `yaml:"output"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and finally defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"DATA_PROVIDER":      &c.DataSource.Provider,
		"REST_BASE_URL":      &c.DataSource.BaseURL,
		"REST_API_KEY":       &c.DataSource.APIKey,
		"TRAIN_PERIOD":       &c.DataSource.Period,
		"CRON_TRAIN":         &c.Schedule.Cron,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"RESULTS_JSON_PATH":  &c.Output.JSONPath,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"HTTPS_PROXY":        &c.Proxy,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TRAIN_EPISODES": &c.Training.Episodes,
		"TRAIN_WORKERS":  &c.Training.Workers,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("TRAIN_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse TRAIN_SEED: %w", err)
		}
		c.Training.Seed = n
	}
	if v := os.Getenv("TRAIN_SYMBOLS"); v != "" {
		c.Training.Symbols = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Training.Symbols = append(c.Training.Symbols, s)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.Period == "" {
		c.DataSource.Period = collector.DefaultPeriod
	}
	if c.Training.Episodes == 0 {
		c.Training.Episodes = 100
	}
	if c.Training.ProgressEvery == 0 {
		c.Training.ProgressEvery = 10
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/trainer.db"
	}
	if c.Output.JSONPath == "" {
		c.Output.JSONPath = "data/rl-training-results.json"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderFinanceGo:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if err := collector.ValidatePeriod(c.DataSource.Period); err != nil {
		return fmt.Errorf("data_source.period: %w", err)
	}
	if c.Training.Episodes < 1 {
		return fmt.Errorf("training.episodes must be at least 1")
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("training.workers must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether run summaries should be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
