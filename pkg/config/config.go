package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage driver names selectable via PRINT_STORAGE_DRIVER.
const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	CORS      CORSConfig
	Log       LogConfig
	Print     PrintConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig configures owner session tokens for the dashboard routes.
type SessionConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PrintConfig carries the authorization policy knobs. These are the named
// values the verification and disclosure paths consume; they are never
// hardcoded at call sites.
type PrintConfig struct {
	ExpiryWindow time.Duration
	MaxAttempts  int
	MaxCopies    int
}

// StorageConfig selects and configures the backing object store.
type StorageConfig struct {
	Driver    string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	BaseDir   string
}

// RateLimitConfig throttles verification attempts per client ahead of the
// per-job attempt ceiling.
type RateLimitConfig struct {
	Enabled      bool
	VerifyLimit  int
	VerifyWindow time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		Expiration: parseDuration(v.GetString("SESSION_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Print = PrintConfig{
		ExpiryWindow: parseDuration(v.GetString("PRINT_EXPIRY_WINDOW"), 30*time.Minute),
		MaxAttempts:  v.GetInt("PRINT_MAX_ATTEMPTS"),
		MaxCopies:    v.GetInt("PRINT_MAX_COPIES"),
	}

	cfg.Storage = StorageConfig{
		Driver:    v.GetString("PRINT_STORAGE_DRIVER"),
		Bucket:    v.GetString("PRINT_STORAGE_BUCKET"),
		Region:    v.GetString("PRINT_STORAGE_REGION"),
		Endpoint:  v.GetString("PRINT_STORAGE_ENDPOINT"),
		AccessKey: v.GetString("PRINT_STORAGE_ACCESS_KEY"),
		SecretKey: v.GetString("PRINT_STORAGE_SECRET_KEY"),
		BaseDir:   v.GetString("PRINT_STORAGE_BASE_DIR"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:      v.GetBool("VERIFY_RATE_LIMIT_ENABLED"),
		VerifyLimit:  v.GetInt("VERIFY_RATE_LIMIT"),
		VerifyWindow: parseDuration(v.GetString("VERIFY_RATE_WINDOW"), time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "printgate")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_secret")
	v.SetDefault("SESSION_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PRINT_EXPIRY_WINDOW", "30m")
	v.SetDefault("PRINT_MAX_ATTEMPTS", 3)
	v.SetDefault("PRINT_MAX_COPIES", 50)

	v.SetDefault("PRINT_STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("PRINT_STORAGE_BUCKET", "printgate-documents")
	v.SetDefault("PRINT_STORAGE_REGION", "us-east-1")
	v.SetDefault("PRINT_STORAGE_ENDPOINT", "")
	v.SetDefault("PRINT_STORAGE_ACCESS_KEY", "")
	v.SetDefault("PRINT_STORAGE_SECRET_KEY", "")
	v.SetDefault("PRINT_STORAGE_BASE_DIR", "./documents")

	v.SetDefault("VERIFY_RATE_LIMIT_ENABLED", false)
	v.SetDefault("VERIFY_RATE_LIMIT", 10)
	v.SetDefault("VERIFY_RATE_WINDOW", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
