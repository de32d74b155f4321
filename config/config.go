package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTExpiry time.Duration

	// Spoonacular configuration
	SpoonacularAPIKey  string
	SpoonacularBaseURL string
	UpstreamTimeout    time.Duration
	UpstreamMaxRetries int

	// Mail configuration
	MailProvider string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailFromName string
	AWSRegion    string
	ResetURLBase string

	// Meal plan policy
	GenerationRateLimit int
	GenerationTimeout   time.Duration
	AuthRateLimit       int
	RatingPolicy        string
}

const (
	RatingPolicyAppend  = "append"
	RatingPolicyReplace = "replace"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development || env == Test {
		// A missing .env file is fine, the process environment still applies.
		_ = godotenv.Load()
	}

	cfg := defaults(env)
	loadFromEnv(cfg)

	if env.UsesSecretsDir() {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults(env Environment) *Config {
	return &Config{
		Env:                 env,
		ServerPort:          "8080",
		ServerHost:          "0.0.0.0",
		AllowedOrigins:      []string{"http://localhost:3000"},
		DBDriver:            "postgres",
		DBHost:              "localhost",
		DBPort:              "5432",
		DBUser:              "postgres",
		DBName:              "mealplanner",
		DBSSLMode:           "disable",
		SQLitePath:          "mealplanner.db",
		RedisHost:           "localhost",
		RedisPort:           "6379",
		JWTExpiry:           2 * time.Hour,
		SpoonacularBaseURL:  "https://api.spoonacular.com",
		UpstreamTimeout:     10 * time.Second,
		UpstreamMaxRetries:  2,
		MailProvider:        "log",
		MailFromName:        "Meal Planner",
		ResetURLBase:        "http://localhost:3000/reset-password",
		GenerationRateLimit: 10,
		GenerationTimeout:   2 * time.Minute,
		AuthRateLimit:       20,
		RatingPolicy:        RatingPolicyAppend,
	}
}

func loadFromEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpiry = getEnvDuration("JWT_EXPIRY", cfg.JWTExpiry)

	cfg.SpoonacularAPIKey = getEnv("SPOONACULAR_API_KEY", cfg.SpoonacularAPIKey)
	cfg.SpoonacularBaseURL = strings.TrimRight(getEnv("SPOONACULAR_BASE_URL", cfg.SpoonacularBaseURL), "/")
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.UpstreamMaxRetries = getEnvInt("UPSTREAM_MAX_RETRIES", cfg.UpstreamMaxRetries)

	cfg.MailProvider = strings.ToLower(getEnv("MAIL_PROVIDER", cfg.MailProvider))
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnv("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.MailFrom = getEnv("MAIL_FROM", cfg.MailFrom)
	cfg.MailFromName = getEnv("MAIL_FROM_NAME", cfg.MailFromName)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.ResetURLBase = getEnv("RESET_URL_BASE", cfg.ResetURLBase)

	cfg.GenerationRateLimit = getEnvInt("GENERATION_RATE_LIMIT", cfg.GenerationRateLimit)
	cfg.GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", cfg.GenerationTimeout)
	cfg.AuthRateLimit = getEnvInt("AUTH_RATE_LIMIT", cfg.AuthRateLimit)
	cfg.RatingPolicy = strings.ToLower(getEnv("MEAL_RATING_POLICY", cfg.RatingPolicy))
}

// loadSecrets overrides sensitive values with Docker secrets when they exist
func loadSecrets(cfg *Config) {
	override := func(dst *string, name string) {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
	override(&cfg.DBUser, "db_user")
	override(&cfg.DBPassword, "db_password")
	override(&cfg.RedisPassword, "redis_password")
	override(&cfg.RedisURL, "redis_url")
	override(&cfg.JWTSecret, "jwt_secret")
	override(&cfg.SpoonacularAPIKey, "spoonacular_api_key")
	override(&cfg.SMTPUsername, "smtp_username")
	override(&cfg.SMTPPassword, "smtp_password")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN returns the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
