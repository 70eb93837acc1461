package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"MacroSentinel/internal/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Provider holds the endpoint and credential of one upstream.
type Provider struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Providers struct {
		FRED         Provider `yaml:"fred"`
		AlphaVantage Provider `yaml:"alpha_vantage"`
	} `yaml:"providers"`
	HTTP struct {
		ConnectTimeout time.Duration `yaml:"connect_timeout" default:"3s" validate:"gt=0"`
		Timeout        time.Duration `yaml:"timeout" default:"5s" validate:"gt=0"`
		UserAgent      string        `yaml:"user_agent" default:"MacroRiskDashboard/1.0"`
	} `yaml:"http"`
	Render struct {
		Deadline       time.Duration `yaml:"deadline" default:"10s" validate:"gt=0"`
		ResolveTimeout time.Duration `yaml:"resolve_timeout" default:"6s" validate:"gt=0"`
		Concurrency    int           `yaml:"concurrency" validate:"min=0"`
	} `yaml:"render"`
	Log      logger.Config `yaml:"log"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
		AlertCron  string `yaml:"alert_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies defaults and environment
// variable overrides. A missing file is not an error.
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

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Environment variable overrides
	overrides := []struct {
		env string
		dst *string
	}{
		{"FRED_API_KEY", &cfg.Providers.FRED.APIKey},
		{"ALPHA_VANTAGE_KEY", &cfg.Providers.AlphaVantage.APIKey},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"HTTPS_PROXY", &cfg.Proxy},
		{"REPORT_CRON", &cfg.Schedule.ReportCron},
		{"ALERT_CRON", &cfg.Schedule.AlertCron},
		{"LOG_LEVEL", &cfg.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Schedule.ReportCron != "" || c.Schedule.AlertCron != "" {
		if c.Telegram.BotToken == "" {
			return errors.New("telegram.bot_token is required when a schedule is set")
		}
		if c.Telegram.ChatID == "" {
			return errors.New("telegram.chat_id is required when a schedule is set")
		}
	}
	return nil
}

// TelegramEnabled reports whether the bot credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
