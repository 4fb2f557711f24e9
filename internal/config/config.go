package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database (Supabase Postgres)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Supabase
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	WebhookAPIKey     string

	// Reporting
	Timezone       string
	ReportPageSize int

	// Cache
	CacheBackend  string // "memory" or "redis"
	CacheTTL      time.Duration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Advice
	AdviceProvider     string // "edge", "gemini" or "" to disable
	AdviceFunctionName string
	GeminiAPIKey       string
	GeminiModel        string
	AdviceTimeout      time.Duration

	// PDF rendering
	PDFEnabled      bool
	ChromeRemoteURL string
	ChromeNoSandbox bool

	// Export archive
	ExportBucket       string
	ExportEndpoint     string
	ExportRegion       string
	ExportAccessKey    string
	ExportSecretKey    string
	ExportUsePathStyle bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", "fallback-secret-key-for-dev-only"),
		WebhookAPIKey:     getEnv("WEBHOOK_API_KEY", ""),

		Timezone:       getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		ReportPageSize: getEnvInt("REPORT_PAGE_SIZE", 10),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdviceProvider:     getEnv("ADVICE_PROVIDER", ""),
		AdviceFunctionName: getEnv("ADVICE_FUNCTION_NAME", "financial-advice"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AdviceTimeout:      getEnvDuration("ADVICE_TIMEOUT", 20*time.Second),

		PDFEnabled:      getEnvBool("PDF_ENABLED", false),
		ChromeRemoteURL: getEnv("CHROME_REMOTE_URL", ""),
		ChromeNoSandbox: getEnvBool("CHROME_NO_SANDBOX", true),

		ExportBucket:       getEnv("EXPORT_BUCKET", ""),
		ExportEndpoint:     getEnv("EXPORT_ENDPOINT", ""),
		ExportRegion:       getEnv("EXPORT_REGION", "us-east-1"),
		ExportAccessKey:    getEnv("EXPORT_ACCESS_KEY", ""),
		ExportSecretKey:    getEnv("EXPORT_SECRET_KEY", ""),
		ExportUsePathStyle: getEnvBool("EXPORT_USE_PATH_STYLE", true),
	}

	if config.ReportPageSize <= 0 {
		log.Printf("Warning: invalid REPORT_PAGE_SIZE %d, falling back to 10\n", config.ReportPageSize)
		config.ReportPageSize = 10
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the application configuration. Tests use it to avoid reading the environment.
func Set(cfg *Config) {
	appConfig = cfg
}

// Location returns the configured reporting timezone, or UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown APP_TIMEZONE %q, using UTC\n", c.Timezone)
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}
