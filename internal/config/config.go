package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string

	// RegKeyEncryptionKeys holds the versioned registration-key material,
	// format "1:<hex>,2:<hex>"; the highest version encrypts new keys.
	RegKeyEncryptionKeys string

	// MigrationBaselineVersion marks the schema level a pre-existing
	// database is assumed to carry; 0 disables baselining.
	MigrationBaselineVersion int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     getEnv("DB_NAME", "peerreview"),
		DBPort:     getEnv("DB_PORT", "5432"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RegKeyEncryptionKeys: os.Getenv("REGKEY_ENCRYPTION_KEYS"),
	}

	baseline := getEnv("MIGRATION_BASELINE_VERSION", "0")
	parsed, err := strconv.Atoi(baseline)
	if err != nil || parsed < 0 {
		return nil, fmt.Errorf("invalid MIGRATION_BASELINE_VERSION: %q", baseline)
	}
	cfg.MigrationBaselineVersion = parsed

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
