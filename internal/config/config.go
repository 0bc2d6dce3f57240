package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront reads from the environment.
type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration

	// file, redis or mongo.
	StorageBackend  string
	CartStoragePath string

	RedisAddr     string
	RedisPassword string

	MongoURI    string
	MongoDBName string

	WooBaseURL        string
	WooConsumerKey    string
	WooConsumerSecret string

	CatalogDBPath         string
	CatalogMigrationsPath string

	AllowedOrigins []string
}

// Load reads .env when present, then the environment, falling back to
// defaults that run the storefront standalone on local files.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ShutdownTimeout: 10 * time.Second,

		StorageBackend:  getEnv("STORAGE_BACKEND", "file"),
		CartStoragePath: getEnv("CART_STORAGE_PATH", "./data"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		WooBaseURL:        getEnv("WOO_BASE_URL", ""),
		WooConsumerKey:    getEnv("WOO_CONSUMER_KEY", ""),
		WooConsumerSecret: getEnv("WOO_CONSUMER_SECRET", ""),

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "./data/catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "./migrations"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
