package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// EnvPrefix is prepended to every environment variable, e.g. MINDPULSE_HTTP_PORT
const EnvPrefix = "MINDPULSE"

// Config is built once at startup by Load and handed to components.
// Components receive the sub-struct they need by value and never mutate it.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Store    StoreConfig    `mapstructure:"store"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Debug   bool   `mapstructure:"debug"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// RedisConfig configures the cache. An empty Addr disables it.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
}

// Enabled reports whether a redis address is configured
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type AuthConfig struct {
	SecretKey  string        `mapstructure:"secret_key"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	// SecureCookies marks auth cookies Secure; derived from App.Debug
	SecureCookies bool `mapstructure:"-"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// KafkaConfig configures domain event publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled reports whether any broker is configured
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type AnalysisConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "MindPulse API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", true)

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.sqlite_path", "./mindpulse.db")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "mindpulse")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.dashboard_ttl", 5*time.Minute)

	v.SetDefault("auth.secret_key", "your-super-secret-key-change-in-production-32chars")
	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("cors.origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "mindpulse.analysis")

	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.queue_size", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from defaults, an optional YAML file and
// MINDPULSE_* environment variables, in increasing precedence.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Auth.SecureCookies = !cfg.App.Debug
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.CORS.Origins = splitList(cfg.CORS.Origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("mongo.uri is required for the mongo store"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if len(c.Auth.SecretKey) < 32 {
		errs = append(errs, errors.New("auth.secret_key must be at least 32 characters"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token lifetimes must be positive"))
	}
	if c.Analysis.Workers <= 0 {
		errs = append(errs, errors.New("analysis.workers must be positive"))
	}
	if c.Analysis.QueueSize < 0 {
		errs = append(errs, errors.New("analysis.queue_size must not be negative"))
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}

// splitList flattens comma separated entries coming from env variables
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
