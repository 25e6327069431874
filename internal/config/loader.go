package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is required")

const envPrefix = "GTM"

// Load reads .env, an optional config.yaml and GTM_* environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return load(v)
}

// LoadFile reads configuration from an explicit path, still honouring env overrides.
func LoadFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromLegacyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gtm-studio")
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.top_p", 0.95)
	v.SetDefault("gemini.max_output_tokens", 2048)
	v.SetDefault("gemini.timeout", time.Duration(0))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweep_interval", 5*time.Minute)
	v.SetDefault("tracing.enabled", false)
}

// overrideFromLegacyEnv keeps the bare variable names the profiler agent was deployed with.
func overrideFromLegacyEnv(cfg *Config) {
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
	}
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"_SERVER_PORT") == "" {
		cfg.Server.Port = port
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 2 * time.Hour
	}
	if cfg.Session.SweepInterval <= 0 {
		cfg.Session.SweepInterval = 5 * time.Minute
	}
}

// Validate checks the settings needed to talk to the model.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be within [0, 2], got %v", c.Gemini.Temperature)
	}
	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		return fmt.Errorf("gemini.top_p must be within [0, 1], got %v", c.Gemini.TopP)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
