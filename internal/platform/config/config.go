package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	Environment     string
	LogLevel        string
	RunMigrations   bool
	MigrationsDir   string
	RunSeed         bool
	MaxBodyBytes    int64
	MetricsEnabled  bool
	PhoneRegion     string
	DefaultCurrency string

	EmailFrom    string
	EmailEnabled bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPUseTLS   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StorageDir            string
	GCSBucket             string
	GCSCredentialsFile    string
	DataEncryptionKey     string
	CompanyName           string
	CompanyAddress        string
	PeriodLockTTLSeconds  int
	PeriodLockWaitSeconds int
}

// Load reads the process environment after merging any .env files found in
// the working directory. Variables already set win over .env values.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		_ = godotenv.Load(file)
	}
	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RunSeed:         getEnvBool("RUN_SEED", true),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 5<<20)),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		PhoneRegion:     getEnv("PHONE_REGION", "IN"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),

		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled: getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:   getEnvBool("SMTP_USE_TLS", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StorageDir:            getEnv("STORAGE_DIR", "storage"),
		GCSBucket:             getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile:    getEnv("GCS_CREDENTIALS_FILE", ""),
		DataEncryptionKey:     getEnv("DATA_ENCRYPTION_KEY", ""),
		CompanyName:           getEnv("COMPANY_NAME", "Back Office"),
		CompanyAddress:        getEnv("COMPANY_ADDRESS", ""),
		PeriodLockTTLSeconds:  getEnvInt("PERIOD_LOCK_TTL_SECONDS", 10),
		PeriodLockWaitSeconds: getEnvInt("PERIOD_LOCK_WAIT_SECONDS", 5),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.PeriodLockTTLSeconds <= 0 || c.PeriodLockWaitSeconds < 0 {
		return fmt.Errorf("PERIOD_LOCK_TTL_SECONDS must be positive and PERIOD_LOCK_WAIT_SECONDS not negative")
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a three letter code")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
