package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		HTTPPort        string        `yaml:"http_port"`
		GRPCPort        string        `yaml:"grpc_port"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		LogLevel        string        `yaml:"log_level"`
		LogPretty       bool          `yaml:"log_pretty"`
	} `yaml:"app"`

	Catalog struct {
		DSN      string        `yaml:"dsn"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"catalog"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
	} `yaml:"kafka"`

	Session struct {
		TickInterval time.Duration `yaml:"tick_interval"`
		TTL          time.Duration `yaml:"ttl"`
		WelcomeBonus int64         `yaml:"welcome_bonus"`
		SeedOrders   bool          `yaml:"seed_orders"`
		MaxSessions  int           `yaml:"max_sessions"`
	} `yaml:"session"`

	Health struct {
		ProbeInterval time.Duration `yaml:"probe_interval"`
	} `yaml:"health"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.App.HTTPPort = "8080"
	cfg.App.GRPCPort = "50051"
	cfg.App.RequestTimeout = 30 * time.Second
	cfg.App.ShutdownTimeout = 10 * time.Second
	cfg.App.LogLevel = "info"
	cfg.Catalog.DSN = "storefront.db"
	cfg.Catalog.CacheTTL = 5 * time.Minute
	cfg.Session.TickInterval = time.Minute
	cfg.Session.TTL = 2 * time.Hour
	cfg.Session.WelcomeBonus = 450
	cfg.Session.SeedOrders = true
	cfg.Session.MaxSessions = 10000
	cfg.Health.ProbeInterval = 15 * time.Second
	return cfg
}

// Load builds the configuration in three layers: defaults, the optional YAML
// file named by CONFIG_FILE, then environment variables. A .env file at
// envPath is loaded first and never overrides variables already set.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.App.HTTPPort = getEnv("HTTP_PORT", cfg.App.HTTPPort)
	cfg.App.GRPCPort = getEnv("GRPC_PORT", cfg.App.GRPCPort)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.Catalog.DSN = getEnv("DB_PATH", cfg.Catalog.DSN)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	var err error
	if cfg.App.LogPretty, err = getEnvBool("LOG_PRETTY", cfg.App.LogPretty); err != nil {
		return err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.App.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", cfg.App.RequestTimeout); err != nil {
		return err
	}
	if cfg.App.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.App.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.Catalog.CacheTTL, err = getEnvDuration("MENU_CACHE_TTL", cfg.Catalog.CacheTTL); err != nil {
		return err
	}
	if cfg.Session.TickInterval, err = getEnvDuration("TICK_INTERVAL", cfg.Session.TickInterval); err != nil {
		return err
	}
	if cfg.Session.TTL, err = getEnvDuration("SESSION_TTL", cfg.Session.TTL); err != nil {
		return err
	}
	if cfg.Health.ProbeInterval, err = getEnvDuration("HEALTH_PROBE_INTERVAL", cfg.Health.ProbeInterval); err != nil {
		return err
	}
	if cfg.Session.SeedOrders, err = getEnvBool("SEED_ORDERS", cfg.Session.SeedOrders); err != nil {
		return err
	}
	if cfg.Session.MaxSessions, err = getEnvInt("MAX_SESSIONS", cfg.Session.MaxSessions); err != nil {
		return err
	}
	bonus, err := getEnvInt("WELCOME_BONUS", int(cfg.Session.WelcomeBonus))
	if err != nil {
		return err
	}
	cfg.Session.WelcomeBonus = int64(bonus)
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.App.HTTPPort == "":
		return errors.New("HTTP_PORT is required")
	case c.App.GRPCPort == "":
		return errors.New("GRPC_PORT is required")
	case c.Catalog.DSN == "":
		return errors.New("DB_PATH is required")
	case c.App.RequestTimeout <= 0:
		return errors.New("REQUEST_TIMEOUT must be positive")
	case c.Session.TickInterval <= 0:
		return errors.New("TICK_INTERVAL must be positive")
	case c.Session.MaxSessions <= 0:
		return errors.New("MAX_SESSIONS must be positive")
	case c.Session.WelcomeBonus < 0:
		return errors.New("WELCOME_BONUS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
