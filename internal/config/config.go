package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting, loaded once at startup and injected
// into the services that need it.
type Config struct {
	Environment string
	ServerPort  string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   int // minutes
	RefreshTokenTTL  int // minutes

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	FrontendURL string

	AzureStorageConnectionString string
	BlobContainerName            string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "5000"),

		PostgresDSN: getEnv("POSTGRES_DSN"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTL:  getEnvInt("REFRESH_TOKEN_TTL_MINUTES", 7*24*60),

		SMTPHost:  getEnvOrDefault("EMAIL_HOST", "localhost"),
		SMTPPort:  getEnvOrDefault("EMAIL_PORT", "587"),
		SMTPUser:  getEnvOrDefault("EMAIL_USER", ""),
		SMTPPass:  getEnvOrDefault("EMAIL_PASS", ""),
		EmailFrom: getEnvOrDefault("EMAIL_FROM", "no-reply@speceal.app"),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),

		AzureStorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING"),
		BlobContainerName:            getEnvOrDefault("BLOB_CONTAINER_NAME", "speceal"),

		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", ""),
	}
}

// IsProduction gates diagnostic detail out of error responses.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv retrieves the value of the environment variable named by the key.
func getEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else {
		panic("critical config missing: " + key)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}
