package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DBDriver      string
	DBDSN         string
	ServerPort    string
	SessionSecret string
	BcryptCost    int

	TokenStore    string // "memory" | "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventsBackend string // "log" | "redis" | "mqtt"
	MQTTBroker    string
	MQTTClientID  string

	CORSOrigins        []string
	RateLimitPerMinute int

	AdminUsername string
	AdminEmail    string
	AdminPassword string
	SeedDemo      bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		BcryptCost:    getInt("BCRYPT_COST", bcrypt.DefaultCost),

		TokenStore:    getEnv("TOKEN_STORE", "memory"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		EventsBackend: getEnv("EVENTS_BACKEND", "log"),
		MQTTBroker:    getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:  getEnv("MQTT_CLIENT_ID", "inventory-manager"),

		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 10),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin1234"),
		SeedDemo:      getBool("SEED_DEMO", false),
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBDSN == "" {
			log.Fatal("DB_DSN is not set")
		}
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "inventory.db"
		}
	default:
		log.Fatalf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		log.Fatalf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.TokenStore == "redis" && cfg.RedisAddr == "" {
		log.Fatal("TOKEN_STORE=redis requires REDIS_ADDR")
	}
	if cfg.EventsBackend == "redis" && cfg.RedisAddr == "" {
		log.Fatal("EVENTS_BACKEND=redis requires REDIS_ADDR")
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
		log.Printf("invalid integer for %s: %s", key, v)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid boolean for %s: %s", key, v)
		return fallback
	}
	return b
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
