package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Server      ServerConfig
	Redis       RedisConfig
	SMTP        SMTPConfig
	Application ApplicationConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Service         string
	User            string
	Password        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	IsAutoMigrate   bool
}

type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	UseTLS       bool
	ReviewerAddr string // reviewer notification inbox
	SendsPerMin  int    // outgoing throttle
}

// ApplicationConfig holds the membership-application business settings.
type ApplicationConfig struct {
	// MaxFeeMultiplier bounds the non-fatal "unusually high amount" warning:
	// amounts above standard × multiplier warn but do not fail.
	MaxFeeMultiplier float64

	// Hourly per-IP rate limits for guest endpoints.
	SubmitPerHour    int
	ValidatePerHour  int

	DraftTTL time.Duration

	// Enrollment outbox tuning.
	OutboxInterval    time.Duration
	OutboxMaxAttempts int
	OutboxBatchSize   int

	// Initial reviewer account seeded at migration time.
	AdminEmail    string
	AdminPassword string
}

func Load(env string) (*Config, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "membership-api"),
			Env:  env,
			Port: getEnvAsInt("APP_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvAsInt("DB_PORT", 1521),
			Service:         getEnv("DB_SERVICE", ""),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "1h"),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "10m"),
			IsAutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			Expiry:        getEnvAsDuration("JWT_EXPIRY", "24h"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},
		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			GracefulTimeout: getEnvAsDuration("GRACEFUL_TIMEOUT", "30s"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Enabled:      getEnvAsBool("SMTP_ENABLED", false),
			Host:         getEnv("SMTP_HOST", ""),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Username:     getEnv("SMTP_USERNAME", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("SMTP_FROM", ""),
			UseTLS:       getEnvAsBool("SMTP_USE_TLS", true),
			ReviewerAddr: getEnv("SMTP_REVIEWER_ADDR", ""),
			SendsPerMin:  getEnvAsInt("SMTP_SENDS_PER_MIN", 30),
		},
		Application: ApplicationConfig{
			MaxFeeMultiplier:  getEnvAsFloat("APP_MAX_FEE_MULTIPLIER", 10),
			SubmitPerHour:     getEnvAsInt("APP_SUBMIT_PER_HOUR", 30),
			ValidatePerHour:   getEnvAsInt("APP_VALIDATE_PER_HOUR", 60),
			DraftTTL:          getEnvAsDuration("APP_DRAFT_TTL", "24h"),
			OutboxInterval:    getEnvAsDuration("APP_OUTBOX_INTERVAL", "30s"),
			OutboxMaxAttempts: getEnvAsInt("APP_OUTBOX_MAX_ATTEMPTS", 5),
			OutboxBatchSize:   getEnvAsInt("APP_OUTBOX_BATCH_SIZE", 50),
			AdminEmail:        getEnv("APP_ADMIN_EMAIL", ""),
			AdminPassword:     getEnv("APP_ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(env string) error {
	envFile := fmt.Sprintf(".env.%s", env)

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Warn("env file not found, falling back to system environment",
			"file", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}

	absPath, _ := filepath.Abs(envFile)
	slog.Info("env file loaded", "file", absPath)
	return nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, "invalid app port")
	}

	if c.Database.Host == "" {
		errs = append(errs, "database host is required")
	}
	if c.Database.Service == "" {
		errs = append(errs, "database service is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database user is required")
	}
	if c.Database.Password == "" {
		errs = append(errs, "database password is required")
	}

	if c.JWT.Secret == "" {
		errs = append(errs, "JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		errs = append(errs, "JWT secret must be at least 32 characters")
	}

	if c.SMTP.Enabled && c.SMTP.Host == "" {
		errs = append(errs, "SMTP host is required when SMTP is enabled")
	}

	if c.Application.MaxFeeMultiplier < 1 {
		errs = append(errs, "fee multiplier must be at least 1")
	}
	if c.Application.OutboxMaxAttempts < 1 {
		errs = append(errs, "outbox max attempts must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, ", "))
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "local" || c.App.Env == "dev"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "prod"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if defaultDuration, err := time.ParseDuration(defaultValue); err == nil {
		return defaultDuration
	}
	return 0
}
