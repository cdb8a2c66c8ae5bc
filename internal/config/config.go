package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MySQLDSN      string
	RedisAddr     string
	JWTSecret     []byte
	JWTExpiration time.Duration
	PaymentAPIURL string
	WorkerCount   int
	QueueSize     int
}

// Load reads the environment (honoring a local .env file) and applies
// development defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		MySQLDSN:      getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/assetdesk?parseTime=true"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     []byte(getEnv("JWT_SECRET", "secret")),
		JWTExpiration: getDuration("JWT_EXPIRE", 24*time.Hour),
		PaymentAPIURL: getEnv("PAYMENT_API_URL", "http://localhost:9090"),
		WorkerCount:   getInt("WORKER_COUNT", 4),
		QueueSize:     getInt("QUEUE_SIZE", 1024),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s: %s, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s: %s, using %s", key, v, fallback)
		return fallback
	}
	return d
}
