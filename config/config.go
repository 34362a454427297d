package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	CORS     CORSConfig
	Limits   LimitsConfig
	Cron     CronConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	// Backend is "postgres" or "memory".
	Backend  string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	StorageBucket   string
	// WebAPIKey enables password sign-in through the Identity Toolkit API.
	WebAPIKey string
}

type AuthConfig struct {
	// Provider is "firebase" or "jwt".
	Provider    string
	JWTSecret   string
	JWTAudience string
	AdminRole   string
}

type StorageConfig struct {
	// Backend is "firebase", "s3" or "local".
	Backend         string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string
	LocalDir        string
	LocalPublicPath string
	MaxUploadBytes  int64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LimitsConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	PublicRateLimit float64
	PublicRateBurst int
}

type CronConfig struct {
	Enabled          bool
	CloseExpiredSpec string
}

type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	LogLevel    string
	LogFormat   string
	Version     string
}

// DevelopmentMode reports whether error details may be returned to clients.
func (a AppConfig) DevelopmentMode() bool {
	return a.Debug || a.Environment == "development"
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Backend:  getEnv("STORE_BACKEND", "postgres"),
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "focitech"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
		},
		Auth: AuthConfig{
			Provider:    getEnv("AUTH_PROVIDER", "firebase"),
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			JWTAudience: getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
			AdminRole:   getEnv("AUTH_ADMIN_ROLE", "admin"),
		},
		Storage: StorageConfig{
			Backend:         getEnv("STORAGE_BACKEND", "firebase"),
			S3Bucket:        getEnv("S3_BUCKET", ""),
			S3Region:        getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:      getEnv("S3_ENDPOINT", ""),
			S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			LocalDir:        getEnv("UPLOAD_DIR", "uploads"),
			LocalPublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"https://focitech.site",
			}),
		},
		Limits: LimitsConfig{
			DefaultPageSize: getEnvAsInt("DEFAULT_PAGE_SIZE", 20),
			MaxPageSize:     getEnvAsInt("MAX_PAGE_SIZE", 100),
			PublicRateLimit: getEnvAsFloat("PUBLIC_RATE_LIMIT", 0.2),
			PublicRateBurst: getEnvAsInt("PUBLIC_RATE_BURST", 5),
		},
		Cron: CronConfig{
			Enabled:          getEnvAsBool("CRON_ENABLED", true),
			CloseExpiredSpec: getEnv("CRON_CLOSE_EXPIRED_SPEC", "0 0 0 * * *"),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "focitech-api"),
			Environment: getEnv("APP_ENV", "production"),
			Debug:       getEnvAsBool("DEBUG", false),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "2.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Backend {
	case "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres store")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", c.Database.Backend)
	}

	switch c.Auth.Provider {
	case "firebase":
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be firebase or jwt, got %q", c.Auth.Provider)
	}

	switch c.Storage.Backend {
	case "firebase", "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be firebase, s3 or local, got %q", c.Storage.Backend)
	}

	if c.Limits.MaxPageSize < 1 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive")
	}
	if c.Limits.DefaultPageSize < 1 || c.Limits.DefaultPageSize > c.Limits.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and MAX_PAGE_SIZE")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
