// Package config loads runtime settings for the API process.
//
// Sources, lowest to highest priority:
//
//  1. Defaults from Default()
//  2. Unprefixed variables kept for compatibility (DB_URL, REDIS_URL, PORT)
//  3. YAML file named by COURIER_CONFIG_FILE
//  4. COURIER_* environment variables (COURIER_HTTP_ADDRESS -> http.address)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "COURIER_"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	DB       DBConfig       `koanf:"db"`
	Storage  StorageConfig  `koanf:"storage"`
	Redis    RedisConfig    `koanf:"redis"`
	Queue    QueueConfig    `koanf:"queue"`
	Auth     AuthConfig     `koanf:"auth"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Log      LogConfig      `koanf:"log"`
}

type HTTPConfig struct {
	Address         string        `koanf:"address"`
	CORSOrigins     string        `koanf:"cors_origins"` // CSV
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DBConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
	Migrate  bool   `koanf:"migrate"`
}

type StorageConfig struct {
	// Driver is "postgres" or "memory". Empty picks postgres when a DB URL is set.
	Driver string `koanf:"driver"`
}

type RedisConfig struct {
	URL     string        `koanf:"url"`
	PairTTL time.Duration `koanf:"pair_ttl"`
}

type QueueConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Concurrency int    `koanf:"concurrency"`
	Queues      string `koanf:"queues"` // "critical=6,default=3,low=1"
}

type AuthConfig struct {
	Secret        string `koanf:"secret"`
	Issuer        string `koanf:"issuer"`
	SigningMethod string `koanf:"signing_method"`
	// ServiceToken lets backends raise notifications for any user. Empty disables it.
	ServiceToken string `koanf:"service_token"`
}

type RealtimeConfig struct {
	SendBuffer     int           `koanf:"send_buffer"`
	WriteWait      time.Duration `koanf:"write_wait"`
	PongWait       time.Duration `koanf:"pong_wait"`
	ReadLimit      int64         `koanf:"read_limit"`
	CloseDisplaced bool          `koanf:"close_displaced"`
	Presence       bool          `koanf:"presence"`
	InboundRate    float64       `koanf:"inbound_rate"`
	InboundBurst   int           `koanf:"inbound_burst"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:         ":5000",
			RequestTimeout:  3 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		DB: DBConfig{
			MaxConns: 4,
			Migrate:  true,
		},
		Redis: RedisConfig{
			PairTTL: 10 * time.Minute,
		},
		Queue: QueueConfig{
			Enabled:     true,
			Concurrency: 10,
			Queues:      "default=1,notifications=1",
		},
		Auth: AuthConfig{
			SigningMethod: "HS256",
		},
		Realtime: RealtimeConfig{
			SendBuffer:     128,
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			ReadLimit:      1 << 20,
			CloseDisplaced: true,
			Presence:       true,
			InboundRate:    20,
			InboundBurst:   40,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads .env (best effort) and then every configuration source.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	applyLegacyEnv(&cfg)

	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.resolveStorage()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps COURIER_REALTIME_SEND_BUFFER to realtime.send_buffer. Only the
// first underscore separates the section so keys may contain underscores.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}

func applyLegacyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DB_URL")); v != "" {
		cfg.DB.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Redis.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.HTTP.Address = ":" + v
	}
}

func (c *Config) resolveStorage() {
	if c.Storage.Driver != "" {
		c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
		return
	}
	if c.DB.URL != "" {
		c.Storage.Driver = StoragePostgres
	} else {
		c.Storage.Driver = StorageMemory
	}
}

// Validate reports settings the process cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.Secret) == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.URL == "" {
			errs = append(errs, errors.New("db.url is required for the postgres storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Realtime.SendBuffer <= 0 {
		errs = append(errs, errors.New("realtime.send_buffer must be positive"))
	}
	if c.Realtime.WriteWait <= 0 || c.Realtime.PongWait <= 0 {
		errs = append(errs, errors.New("realtime.write_wait and realtime.pong_wait must be positive"))
	}
	if c.Queue.Concurrency <= 0 {
		errs = append(errs, errors.New("queue.concurrency must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// CORSOriginList splits the configured origins, dropping blanks.
func (c HTTPConfig) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
