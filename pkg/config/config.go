package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Models   ModelsConfig
	Forecast ForecastConfig
	Kafka    KafkaConfig
}

type LoggerConfig struct {
	Level  string
	Format string // json or console
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BodyLimitMB     int
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
}

// ModelsConfig describes where per-organization forecast artifacts live.
type ModelsConfig struct {
	Backend    string // local or s3
	Dir        string
	KeyPattern string // must contain a single %d for the organization id
	S3         S3Config
	CacheSize  int
	CacheTTL   time.Duration
}

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string

	// Static credentials; empty falls back to the default AWS chain.
	AccessKeyID     string
	SecretAccessKey string
}

type ForecastConfig struct {
	DefaultPeriods int
	MaxPeriods     int
}

// KafkaConfig is optional; import events are disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables work too (Docker/K8s)
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, err := getDuration("SERVER_READ_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getDuration("SERVER_WRITE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDuration("SERVER_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	bodyLimit, err := getInt("SERVER_BODY_LIMIT_MB", "10")
	if err != nil {
		return nil, err
	}
	cacheSize, err := getInt("MODEL_CACHE_SIZE", "128")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("MODEL_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	defaultPeriods, err := getInt("FORECAST_DEFAULT_PERIODS", "6")
	if err != nil {
		return nil, err
	}
	maxPeriods, err := getInt("FORECAST_MAX_PERIODS", "120")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			BodyLimitMB:     bodyLimit,
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "carbon_insights"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			RunMigrations: getEnv("DB_RUN_MIGRATIONS", "true") == "true",
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Models: ModelsConfig{
			Backend:    getEnv("MODEL_BACKEND", "local"),
			Dir:        getEnv("MODEL_DIR", "ml_models"),
			KeyPattern: getEnv("MODEL_KEY_PATTERN", "org_%d_ridge.json"),
			S3: S3Config{
				Bucket:   getEnv("MODEL_S3_BUCKET", ""),
				Region:   getEnv("MODEL_S3_REGION", "us-east-1"),
				Endpoint: getEnv("MODEL_S3_ENDPOINT", ""),
				Prefix:   getEnv("MODEL_S3_PREFIX", ""),

				AccessKeyID:     getEnv("MODEL_S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("MODEL_S3_SECRET_ACCESS_KEY", ""),
			},
			CacheSize: cacheSize,
			CacheTTL:  cacheTTL,
		},
		Forecast: ForecastConfig{
			DefaultPeriods: defaultPeriods,
			MaxPeriods:     maxPeriods,
		},
		Kafka: KafkaConfig{
			Brokers: parseList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "emissions.imported"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Models.Backend {
	case "local":
		if c.Models.Dir == "" {
			return fmt.Errorf("MODEL_DIR is required for the local model backend")
		}
	case "s3":
		if c.Models.S3.Bucket == "" {
			return fmt.Errorf("MODEL_S3_BUCKET is required for the s3 model backend")
		}
	default:
		return fmt.Errorf("unsupported MODEL_BACKEND %q (must be 'local' or 's3')", c.Models.Backend)
	}
	if strings.Count(c.Models.KeyPattern, "%d") != 1 {
		return fmt.Errorf("MODEL_KEY_PATTERN must contain exactly one %%d")
	}
	if c.Forecast.DefaultPeriods < 1 {
		return fmt.Errorf("FORECAST_DEFAULT_PERIODS must be positive")
	}
	if c.Forecast.MaxPeriods < c.Forecast.DefaultPeriods {
		return fmt.Errorf("FORECAST_MAX_PERIODS must be >= FORECAST_DEFAULT_PERIODS")
	}
	if c.Server.BodyLimitMB < 1 {
		return fmt.Errorf("SERVER_BODY_LIMIT_MB must be positive")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// DSN builds a libpq-style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key, defaultValue string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
