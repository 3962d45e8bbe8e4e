package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location, relative to the working directory.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port                       string   `yaml:"port"`
	LogLevel                   string   `yaml:"logLevel"`
	DatabaseURL                string   `yaml:"databaseURL"`
	UseMemoryStore             bool     `yaml:"useMemoryStore"`
	RedisAddr                  string   `yaml:"redisAddr"`
	RedisPassword              string   `yaml:"redisPassword"`
	TrustedProxyCIDRs          []string `yaml:"trustedProxyCidrs"`
	GenerateRateLimitPerMinute int      `yaml:"generateRateLimitPerMinute"`
	DailyGenerationLimit       int      `yaml:"dailyGenerationLimit"`
	GenerationProvider         string   `yaml:"generationProvider"`
	GenerationBaseURL          string   `yaml:"generationBaseURL"`
	GenerationAPIKey           string   `yaml:"generationAPIKey"`
	GenerationModel            string   `yaml:"generationModel"`
	MaxOutputTokens            int      `yaml:"maxOutputTokens"`
	GenerationTimeout          string   `yaml:"generationTimeout"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("GENERATION_PROVIDER"); v != "" {
		cfg.GenerationProvider = strings.TrimSpace(v)
	}
	if v := os.Getenv("GENERATION_BASE_URL"); v != "" {
		cfg.GenerationBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("GENERATION_API_KEY"); v != "" {
		cfg.GenerationAPIKey = v
	}
	if v := os.Getenv("GENERATION_MODEL"); v != "" {
		cfg.GenerationModel = strings.TrimSpace(v)
	}
	if v := os.Getenv("DAILY_GENERATION_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DailyGenerationLimit = n
		}
	}
	if v := os.Getenv("MAX_OUTPUT_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxOutputTokens = n
		}
	}
	if v := os.Getenv("GENERATION_TIMEOUT"); v != "" {
		cfg.GenerationTimeout = strings.TrimSpace(v)
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.DatabaseURL == "" && !cfg.UseMemoryStore {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.GenerateRateLimitPerMinute > 0 && strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for distributed rate limiting")
	}
	if cfg.GenerateRateLimitPerMinute < 0 {
		return errors.New("config: generateRateLimitPerMinute must be >= 0")
	}
	if cfg.DailyGenerationLimit < 0 {
		return errors.New("config: dailyGenerationLimit must be >= 0")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.GenerationProvider)) {
	case "", "none", "openai", "gemini", "ollama":
	default:
		return fmt.Errorf("config: unknown generationProvider %q", cfg.GenerationProvider)
	}
	if provider := strings.ToLower(strings.TrimSpace(cfg.GenerationProvider)); provider != "" && provider != "none" {
		if cfg.GenerationModel == "" {
			return errors.New("config: generationModel is required when a generation provider is set")
		}
	}
	return nil
}

// ParseGenerationTimeout parses the optional provider call timeout.
func ParseGenerationTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("config: invalid generationTimeout: %w", err)
	}
	if dur <= 0 {
		return 0, errors.New("config: generationTimeout must be positive")
	}
	return dur, nil
}
