package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	MongoURI    string
	DBName      string
	Environment string
	AppId       string
	CORSOrigins string

	// CompanyShareRate is the fraction of the agent commission pool the
	// company retains, unless a tenant overrides it.
	CompanyShareRate decimal.Decimal

	SessionCacheSize int
	SessionCacheTTL  time.Duration

	// PlatformSnapshotCron schedules platform stat snapshots. Empty disables.
	PlatformSnapshotCron string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	shareRate, err := decimal.NewFromString(getEnv("COMPANY_SHARE_RATE", "0.40"))
	if err != nil {
		return nil, fmt.Errorf("COMPANY_SHARE_RATE: %w", err)
	}
	if shareRate.IsNegative() || shareRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("COMPANY_SHARE_RATE must be between 0 and 1, got %s", shareRate)
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("SESSION_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_CACHE_TTL: %w", err)
	}

	cacheSize, err := strconv.Atoi(getEnv("SESSION_CACHE_SIZE", "1024"))
	if err != nil || cacheSize <= 0 {
		return nil, fmt.Errorf("SESSION_CACHE_SIZE must be a positive integer")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		TokenTTL:             tokenTTL,
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("DB_NAME", "estate-crm"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		AppId:                getEnv("APP_ID", "estate-crm"),
		CORSOrigins:          getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
		CompanyShareRate:     shareRate,
		SessionCacheSize:     cacheSize,
		SessionCacheTTL:      cacheTTL,
		PlatformSnapshotCron: getEnv("PLATFORM_SNAPSHOT_CRON", "0 2 * * *"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
