package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"5000"`
	MongoURI       string        `envconfig:"MONGOURI" required:"true"`
	DBName         string        `envconfig:"DB" default:"real-estate"`
	JWTKey         string        `envconfig:"JWT_KEY" required:"true"`
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"0s"`
	JWTIssuer      string        `envconfig:"JWT_ISSUER" default:"real_estate_listing"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"10"`
	RedisAddr      string        `envconfig:"REDIS_ADD"`
	RedisPass      string        `envconfig:"REDIS_PASS"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	AllowedOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.JWTKey == "" {
		return Config{}, fmt.Errorf("JWT_KEY must not be empty")
	}
	return cfg, nil
}
