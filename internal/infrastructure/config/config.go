package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Event sinks for reconciliation audit records.
const (
	SinkNone  = "none"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// MaxCallsPerEvent is the most outbound calls one notification can make
// while the request is open: booking update, booking read, ledger,
// notification, payment intent and the audit publish.
const MaxCallsPerEvent = 6

// envKeyReplacer maps nested keys onto env names, e.g. gateways.stripe.secret
// is read from RECONCILER_GATEWAYS_STRIPE_SECRET.
var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Gateways      GatewaysConfig      `mapstructure:"gateways"`
	Reconcile     ReconcileConfig     `mapstructure:"reconcile"`
	Events        EventsConfig        `mapstructure:"events"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	InstanceID    string              `mapstructure:"instance_id"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	CORS               CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnectRetries  uint          `mapstructure:"connect_retries"`
}

type RedisConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	DB                int           `mapstructure:"db"`
	Password          string        `mapstructure:"password"`
	ConnectRetries    uint          `mapstructure:"connect_retries"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// GatewaysConfig holds one entry per integrated payment provider. Secrets
// may be empty; requests for a gateway without a secret get a 500.
type GatewaysConfig struct {
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Paystack PaystackConfig `mapstructure:"paystack"`
}

type StripeConfig struct {
	Secret          string        `mapstructure:"secret"`
	SignatureHeader string        `mapstructure:"signature_header"`
	Tolerance       time.Duration `mapstructure:"tolerance"`
}

type PaystackConfig struct {
	Secret          string `mapstructure:"secret"`
	SignatureHeader string `mapstructure:"signature_header"`
}

// ReconcileConfig bounds reconciliation. The breaker settings apply to the
// audit event sink only; collaborator stores are bounded by StepTimeout.
type ReconcileConfig struct {
	StepTimeout         time.Duration `mapstructure:"step_timeout"`
	AtomicBookingLedger bool          `mapstructure:"atomic_booking_ledger"`
	BreakerMaxFailures  uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

type EventsConfig struct {
	Sink         string   `mapstructure:"sink"`
	Stream       string   `mapstructure:"stream"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("RECONCILER")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/reconciler")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive"))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit_per_minute must not be negative"))
	}
	if c.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if c.Database.Port <= 0 {
		errs = append(errs, fmt.Errorf("database.port must be positive"))
	}
	if c.Gateways.Stripe.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("gateways.stripe.tolerance must be positive"))
	}
	if c.Reconcile.StepTimeout <= 0 {
		errs = append(errs, fmt.Errorf("reconcile.step_timeout must be positive"))
	}
	if c.Reconcile.StepTimeout > 0 && c.Server.WriteTimeout > 0 &&
		c.Reconcile.StepTimeout*MaxCallsPerEvent >= c.Server.WriteTimeout {
		errs = append(errs, fmt.Errorf("reconcile.step_timeout x %d (%s) must stay below server.write_timeout (%s)",
			MaxCallsPerEvent, c.Reconcile.StepTimeout*MaxCallsPerEvent, c.Server.WriteTimeout))
	}
	if c.Reconcile.BreakerMaxFailures == 0 {
		errs = append(errs, fmt.Errorf("reconcile.breaker_max_failures must be positive"))
	}

	switch c.Events.Sink {
	case SinkNone:
	case SinkRedis:
		if c.Redis.Port <= 0 {
			errs = append(errs, fmt.Errorf("redis.port must be positive when events.sink is redis"))
		}
		if c.Events.Stream == "" {
			errs = append(errs, fmt.Errorf("events.stream is required when events.sink is redis"))
		}
	case SinkKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			errs = append(errs, fmt.Errorf("events.kafka_brokers is required when events.sink is kafka"))
		}
		if c.Events.KafkaTopic == "" {
			errs = append(errs, fmt.Errorf("events.kafka_topic is required when events.sink is kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.sink must be one of none, redis, kafka, got %q", c.Events.Sink))
	}

	// Production environment checks
	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
		if c.Gateways.Stripe.Secret == "" && c.Gateways.Paystack.Secret == "" {
			errs = append(errs, fmt.Errorf("at least one gateway secret required in production"))
		}
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.rate_limit_per_minute", 600)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "reconciler")
	v.SetDefault("database.database", "bookings")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_retries", 5)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.connect_retries", 5)
	v.SetDefault("redis.connect_retry_delay", "1s")

	// Gateway defaults
	v.SetDefault("gateways.stripe.secret", "")
	v.SetDefault("gateways.stripe.signature_header", "Stripe-Signature")
	v.SetDefault("gateways.stripe.tolerance", "300s")
	v.SetDefault("gateways.paystack.secret", "")
	v.SetDefault("gateways.paystack.signature_header", "X-Paystack-Signature")

	// Reconciliation defaults
	v.SetDefault("reconcile.step_timeout", "2s")
	v.SetDefault("reconcile.atomic_booking_ledger", false)
	v.SetDefault("reconcile.breaker_max_failures", 5)
	v.SetDefault("reconcile.breaker_open_timeout", "30s")

	// Event sink defaults
	v.SetDefault("events.sink", SinkNone)
	v.SetDefault("events.stream", "payments:reconciled")
	v.SetDefault("events.kafka_brokers", []string{})
	v.SetDefault("events.kafka_topic", "payments.reconciled")

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)

	// Instance ID
	v.SetDefault("instance_id", "reconciler-1")
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
