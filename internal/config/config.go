package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/vidinfra/commtrack/internal/types"
)

type Configuration struct {
	Deployment  DeploymentConfig  `validate:"required"`
	Server      ServerConfig      `validate:"required"`
	Logging     LoggingConfig     `validate:"required"`
	Postgres    PostgresConfig    `validate:"required"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Consumer    ConsumerConfig    `mapstructure:"consumer"`
	Transitions TransitionsConfig `mapstructure:"transitions"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Seed        SeedConfig        `mapstructure:"seed"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" default:"60"`
	// LockTimeoutMs bounds how long a transaction waits on a row lock before
	// the store reports a concurrency conflict. Zero keeps the server default.
	LockTimeoutMs int `mapstructure:"lock_timeout_ms" default:"5000"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	Topic         string   `mapstructure:"topic"`
	ClientID      string   `mapstructure:"client_id"`
	TLS           bool     `mapstructure:"tls"`
	UseSASL       bool     `mapstructure:"use_sasl"`
	SASLMechanism string   `mapstructure:"sasl_mechanism"`
	SASLUser      string   `mapstructure:"sasl_user"`
	SASLPassword  string   `mapstructure:"sasl_password"`
}

// ConsumerConfig controls the transition-event consumer
type ConsumerConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	PubSub          types.PubSubType `mapstructure:"pubsub" validate:"omitempty,oneof=memory kafka"`
	Topic           string           `mapstructure:"topic"`
	MaxRetries      int              `mapstructure:"max_retries"`
	InitialInterval time.Duration    `mapstructure:"initial_interval"`
	MaxInterval     time.Duration    `mapstructure:"max_interval"`
	Multiplier      float64          `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration    `mapstructure:"max_elapsed_time"`
	// DedupeTTL is how long a processed message UUID is remembered
	DedupeTTL time.Duration `mapstructure:"dedupe_ttl"`
}

type TransitionsConfig struct {
	Policy types.TransitionPolicy `mapstructure:"policy" validate:"omitempty,oneof=permissive forward_only"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type SeedConfig struct {
	// DefaultTaxonomy provisions the built-in statuses and types on migrate
	DefaultTaxonomy bool `mapstructure:"default_taxonomy"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/commtrack")

	v.SetEnvPrefix("COMMTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("postgres.lock_timeout_ms", 5000)
	v.SetDefault("consumer.pubsub", types.MemoryPubSub)
	v.SetDefault("consumer.topic", "communication_status_events")
	v.SetDefault("consumer.max_retries", 3)
	v.SetDefault("consumer.initial_interval", time.Second)
	v.SetDefault("consumer.max_interval", 10*time.Second)
	v.SetDefault("consumer.multiplier", 2.0)
	v.SetDefault("consumer.max_elapsed_time", time.Minute)
	v.SetDefault("consumer.dedupe_ttl", 10*time.Minute)
	v.SetDefault("transitions.policy", types.TransitionPolicyPermissive)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Consumer: ConsumerConfig{
			PubSub:          types.MemoryPubSub,
			Topic:           "communication_status_events",
			MaxRetries:      3,
			InitialInterval: time.Second,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
			MaxElapsedTime:  time.Minute,
			DedupeTTL:       10 * time.Minute,
		},
		Transitions: TransitionsConfig{Policy: types.TransitionPolicyPermissive},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
