package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup. Handlers
// receive their dependencies explicitly; nothing here is mutated after Load.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret []byte
}

// Load reads .env if present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:      getenv("PORT", ":8080"),
		MongoURI:  getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getenv("MONGO_DB", "retaildb"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret: []byte(getenv("JWT_SECRET", "your_secret_key")),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
