package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "pubsub", cfg.Queue.Provider)
	assert.Equal(t, "website-scraper-tasks", cfg.Queue.WebsiteTopic)
	assert.Equal(t, "federal-scraper-tasks", cfg.Queue.FederalTopic)
	assert.Equal(t, "https://places.googleapis.com", cfg.Places.BaseURL)
	assert.Equal(t, 20000, cfg.Places.DailyQuota)
	assert.Equal(t, 10000, cfg.Places.DevDailyQuota)
	assert.Equal(t, 10, cfg.Places.TimeoutSecs)
	assert.InDelta(t, 50.0, cfg.Places.DuplicateRadiusM, 0.001)
	assert.Equal(t, 15, cfg.Website.MaxPages)
	assert.Equal(t, 10, cfg.Website.TimeoutSecs)
	assert.Equal(t, "AurisBot/1.0 (+https://auris.com.br/bot)", cfg.Website.UserAgent)
	assert.Equal(t, 20000, cfg.Website.MaxPageChars)
	assert.Equal(t, 300000, cfg.Website.MaxTotalChars)
	assert.Equal(t, "https://brasilapi.com.br/api/cnpj/v1", cfg.Federal.BaseURL)
	assert.Equal(t, 15, cfg.Federal.TimeoutSecs)
	assert.Equal(t, 2, cfg.Federal.MaxRetries)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.GeminiModel)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
stage: dev
log:
  level: debug
  format: console
server:
  port: 9090
website:
  max_pages: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Stage)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Website.MaxPages)
	// Defaults still apply for unset values
	assert.Equal(t, 2, cfg.Federal.MaxRetries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
stage: dev
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("AURIS_STAGE", "prod")
	t.Setenv("AURIS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("AURIS_SERVER_PORT", "3000")
	t.Setenv("AURIS_PLACES_DAILY_QUOTA", "5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Places.DailyQuota)
}

func TestQuotaByStage(t *testing.T) {
	t.Parallel()

	cfg := PlacesConfig{DailyQuota: 20000, DevDailyQuota: 10000}
	assert.Equal(t, 20000, cfg.Quota("prod"))
	assert.Equal(t, 10000, cfg.Quota("dev"))
	assert.Equal(t, 20000, cfg.Quota(""))
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func validBase() *Config {
	cfg := &Config{}
	cfg.Store.DatabaseURL = "postgres://localhost/auris"
	cfg.Queue.Provider = "noop"
	cfg.Server.Port = 8080
	cfg.Places.APIKey = "places-key"
	cfg.Places.DailyQuota = 20000
	cfg.Website.MaxPages = 15
	cfg.Federal.MaxRetries = 2
	cfg.LLM.Provider = "gemini"
	cfg.LLM.GeminiKey = "gemini-key"
	return cfg
}

func TestValidatePlaces(t *testing.T) {
	t.Parallel()

	cfg := validBase()
	assert.NoError(t, cfg.Validate("places"))

	cfg.Places.APIKey = ""
	err := cfg.Validate("places")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "places.api_key is required")

	cfg = validBase()
	cfg.Places.DailyQuota = 0
	err = cfg.Validate("places")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "places.daily_quota must be > 0")
}

func TestValidateWebsite(t *testing.T) {
	t.Parallel()

	cfg := validBase()
	assert.NoError(t, cfg.Validate("website"))

	cfg.LLM.Provider = "anthropic"
	err := cfg.Validate("website")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.anthropic_key is required")

	cfg.LLM.AnthropicKey = "sk-ant"
	assert.NoError(t, cfg.Validate("website"))

	cfg.LLM.Provider = "openai"
	err = cfg.Validate("website")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider must be gemini or anthropic")
}

func TestValidateFederal(t *testing.T) {
	t.Parallel()

	cfg := validBase()
	assert.NoError(t, cfg.Validate("federal"))

	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("federal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidatePubsubNeedsProject(t *testing.T) {
	t.Parallel()

	cfg := validBase()
	cfg.Queue.Provider = "pubsub"
	err := cfg.Validate("places")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue.project_id is required")

	cfg.Queue.ProjectID = "auris-prod"
	assert.NoError(t, cfg.Validate("places"))
}

func TestValidateServe(t *testing.T) {
	t.Parallel()

	cfg := validBase()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	t.Parallel()

	err := validBase().Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
