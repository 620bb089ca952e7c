package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Simulation   SimulationConfig
	Storage      StorageConfig
	Helpdesk     HelpdeskConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory stores.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// SimulationConfig drives the artificial latency and failure injected at
// the access boundary.
type SimulationConfig struct {
	LatencyMS   int
	JitterMS    int
	FailureRate float64
}

// StorageConfig locates chat attachment files.
type StorageConfig struct {
	Dir          string
	BaseURL      string
	MaxFileBytes int64
}

// HelpdeskConfig holds lifecycle rules.
type HelpdeskConfig struct {
	ReopenWindowHours int
	SeedDemoData      bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	failureRate, err := strconv.ParseFloat(getEnv("SIMULATION_FAILURE_RATE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SIMULATION_FAILURE_RATE: %w", err)
	}
	if failureRate < 0 || failureRate > 1 {
		return nil, fmt.Errorf("invalid SIMULATION_FAILURE_RATE: %v not in [0,1]", failureRate)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "student-helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "helpdesk@example.edu"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Simulation: SimulationConfig{
			LatencyMS:   getEnvAsInt("SIMULATION_LATENCY_MS", 0),
			JitterMS:    getEnvAsInt("SIMULATION_JITTER_MS", 0),
			FailureRate: failureRate,
		},
		Storage: StorageConfig{
			Dir:          getEnv("STORAGE_DIR", "data/attachments"),
			BaseURL:      getEnv("STORAGE_BASE_URL", "/attachments"),
			MaxFileBytes: int64(getEnvAsInt("STORAGE_MAX_FILE_BYTES", 10<<20)),
		},
		Helpdesk: HelpdeskConfig{
			ReopenWindowHours: getEnvAsInt("HELPDESK_REOPEN_WINDOW_HOURS", 168),
			SeedDemoData:      getEnvAsBool("SEED_DEMO_DATA", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Latency returns the fixed simulated delay.
func (s SimulationConfig) Latency() time.Duration {
	return time.Duration(s.LatencyMS) * time.Millisecond
}

// Jitter returns the upper bound of the random extra delay.
func (s SimulationConfig) Jitter() time.Duration {
	return time.Duration(s.JitterMS) * time.Millisecond
}

// ReopenWindow returns how long a closed request stays reopenable.
func (h HelpdeskConfig) ReopenWindow() time.Duration {
	if h.ReopenWindowHours <= 0 {
		return 0
	}
	return time.Duration(h.ReopenWindowHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
