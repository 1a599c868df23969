package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		ReadTimeout    string   `yaml:"read_timeout"`
		WriteTimeout   string   `yaml:"write_timeout"`
		RequestTimeout string   `yaml:"request_timeout"`
		CORSOrigins    []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"` // postgres | sqlite
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Quiz struct {
		TTL            string `yaml:"ttl"`
		EmptyKeyPolicy string `yaml:"empty_key_policy"`
	} `yaml:"quiz"`
	Auth struct {
		Secret   string `yaml:"secret"`
		Issuer   string `yaml:"issuer"`
		TokenTTL string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Clerk struct {
		APIURL        string `yaml:"api_url"`
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
	} `yaml:"clerk"`
	OpenRouter struct {
		URL     string `yaml:"url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Referer string `yaml:"referer"`
		Timeout string `yaml:"timeout"`
	} `yaml:"openrouter"`
	Translate struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
	} `yaml:"translate"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads .env (if present), then the YAML file at path (if present), then
// environment overrides, then fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.Server.Port, "PORT")
	override(&cfg.Database.Driver, "DATABASE_DRIVER")
	override(&cfg.Database.URL, "DATABASE_URL")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	override(&cfg.Quiz.EmptyKeyPolicy, "QUIZ_EMPTY_KEY_POLICY")
	override(&cfg.Auth.Secret, "AUTH_SECRET")
	override(&cfg.Clerk.SecretKey, "CLERK_SECRET_KEY")
	override(&cfg.Clerk.WebhookSecret, "CLERK_WEBHOOK_SECRET")
	override(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	override(&cfg.OpenRouter.Referer, "OPENROUTER_REFERER")
	override(&cfg.Translate.APIKey, "GOOGLE_API_KEY")
	override(&cfg.Log.Level, "LOG_LEVEL")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "classroom-service"
	}
	if cfg.Clerk.APIURL == "" {
		cfg.Clerk.APIURL = "https://api.clerk.com/v1"
	}
	if cfg.OpenRouter.URL == "" {
		cfg.OpenRouter.URL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if cfg.OpenRouter.Model == "" {
		cfg.OpenRouter.Model = "mistralai/mistral-7b-instruct"
	}
	if cfg.Translate.URL == "" {
		cfg.Translate.URL = "https://translation.googleapis.com/language/translate/v2"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
