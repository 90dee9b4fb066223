package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"

	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"

	envPrefix = "TASKS"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" or "inmemory"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RateLimitConfig struct {
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	Backend           string `mapstructure:"backend"`
	RedisURL          string `mapstructure:"redis_url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type WorkerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // "none" or "stdout"
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "task-events")

	v.SetDefault("ratelimit.requests_per_minute", 100)
	v.SetDefault("ratelimit.backend", RateLimitMemory)
	v.SetDefault("ratelimit.redis_url", "")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.reminder_interval", 5*time.Minute)

	v.SetDefault("tracing.enabled", true)
	v.SetDefault("tracing.exporter", TracingExporterNone)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load reads config.yml from the working directory or ./config when present and
// applies TASKS_* environment overrides, e.g. TASKS_DATABASE_URL.
func Load() (*Config, error) {
	return load(viper.New(), true)
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, false)
}

func load(v *viper.Viper, search bool) (*Config, error) {
	setDefaults(v)

	if search {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !search || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for postgres repository")
		}
	default:
		return fmt.Errorf("config: unknown repository.type %q", c.Repository.Type)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("config: ratelimit.requests_per_minute must be positive")
	}
	switch c.RateLimit.Backend {
	case RateLimitMemory:
	case RateLimitRedis:
		if c.RateLimit.RedisURL == "" {
			return errors.New("config: ratelimit.redis_url is required for redis backend")
		}
	default:
		return fmt.Errorf("config: unknown ratelimit.backend %q", c.RateLimit.Backend)
	}

	if c.Worker.Enabled && c.Worker.ReminderInterval <= 0 {
		return errors.New("config: worker.reminder_interval must be positive")
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case TracingExporterNone, TracingExporterStdout:
		default:
			return fmt.Errorf("config: unknown tracing.exporter %q", c.Tracing.Exporter)
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return fmt.Errorf("config: tracing.sample_ratio %v out of range [0, 1]", c.Tracing.SampleRatio)
		}
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && c.Kafka.Topic != ""
}
