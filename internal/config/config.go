package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Stage   string        `yaml:"stage" mapstructure:"stage"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Queue   QueueConfig   `yaml:"queue" mapstructure:"queue"`
	Places  PlacesConfig  `yaml:"places" mapstructure:"places"`
	Website WebsiteConfig `yaml:"website" mapstructure:"website"`
	Federal FederalConfig `yaml:"federal" mapstructure:"federal"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// QueueConfig configures the task queue used to hand work between engines.
type QueueConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	ProjectID    string `yaml:"project_id" mapstructure:"project_id"`
	WebsiteTopic string `yaml:"website_topic" mapstructure:"website_topic"`
	FederalTopic string `yaml:"federal_topic" mapstructure:"federal_topic"`
}

// PlacesConfig configures the place-discovery engine.
type PlacesConfig struct {
	APIKey           string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	DailyQuota       int     `yaml:"daily_quota" mapstructure:"daily_quota"`
	DevDailyQuota    int     `yaml:"dev_daily_quota" mapstructure:"dev_daily_quota"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DuplicateRadiusM float64 `yaml:"duplicate_radius_m" mapstructure:"duplicate_radius_m"`
}

// Quota returns the daily quota for the configured stage.
func (c PlacesConfig) Quota(stage string) int {
	if stage == "dev" {
		return c.DevDailyQuota
	}
	return c.DailyQuota
}

// WebsiteConfig configures the website-enrichment engine.
type WebsiteConfig struct {
	MaxPages      int    `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent     string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxPageChars  int    `yaml:"max_page_chars" mapstructure:"max_page_chars"`
	MaxTotalChars int    `yaml:"max_total_chars" mapstructure:"max_total_chars"`
}

// FederalConfig configures the registry-lookup engine.
type FederalConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// LLMConfig selects and configures the extraction provider.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	GeminiKey      string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiBaseURL  string `yaml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiModel    string `yaml:"gemini_model" mapstructure:"gemini_model"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
}

// ServerConfig configures the task trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields the given run mode needs. Modes are the engine
// command names plus "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	need := func(value, name string) {
		if value == "" {
			problems = append(problems, name+" is required")
		}
	}

	switch mode {
	case "places":
		need(c.Store.DatabaseURL, "store.database_url")
		need(c.Places.APIKey, "places.api_key")
		if c.Places.DailyQuota <= 0 {
			problems = append(problems, "places.daily_quota must be > 0")
		}
	case "website":
		need(c.Store.DatabaseURL, "store.database_url")
		switch c.LLM.Provider {
		case "gemini":
			need(c.LLM.GeminiKey, "llm.gemini_key")
		case "anthropic":
			need(c.LLM.AnthropicKey, "llm.anthropic_key")
		default:
			problems = append(problems, "llm.provider must be gemini or anthropic")
		}
		if c.Website.MaxPages <= 0 {
			problems = append(problems, "website.max_pages must be > 0")
		}
	case "federal":
		need(c.Store.DatabaseURL, "store.database_url")
		if c.Federal.MaxRetries < 0 {
			problems = append(problems, "federal.max_retries must be >= 0")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Queue.Provider == "pubsub" && c.Queue.ProjectID == "" && mode != "serve" {
		problems = append(problems, "queue.project_id is required for the pubsub provider")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AURIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("stage", "prod")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("queue.provider", "pubsub")
	v.SetDefault("queue.website_topic", "website-scraper-tasks")
	v.SetDefault("queue.federal_topic", "federal-scraper-tasks")
	v.SetDefault("places.base_url", "https://places.googleapis.com")
	v.SetDefault("places.daily_quota", 20000)
	v.SetDefault("places.dev_daily_quota", 10000)
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("places.duplicate_radius_m", 50.0)
	v.SetDefault("website.max_pages", 15)
	v.SetDefault("website.timeout_secs", 10)
	v.SetDefault("website.user_agent", "AurisBot/1.0 (+https://auris.com.br/bot)")
	v.SetDefault("website.max_page_chars", 20000)
	v.SetDefault("website.max_total_chars", 300000)
	v.SetDefault("federal.base_url", "https://brasilapi.com.br/api/cnpj/v1")
	v.SetDefault("federal.timeout_secs", 15)
	v.SetDefault("federal.max_retries", 2)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.anthropic_model", "claude-haiku-4-5-20251001")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
