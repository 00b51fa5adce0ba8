package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string `env:"DB_DRIVER"   env-default:"mysql"`
	DBHost     string `env:"DB_HOST"     env-default:"localhost"`
	DBPort     string `env:"DB_PORT"     env-default:"3306"`
	DBUser     string `env:"DB_USER"     env-default:"taskuser"`
	DBPassword string `env:"DB_PASSWORD" env-default:"taskpassword"`
	DBName     string `env:"DB_NAME"     env-default:"task_management"`
	DBLogLevel string `env:"DB_LOG_LEVEL" env-default:"warn"`

	RedisHost     string `env:"REDIS_HOST"     env-default:"localhost"`
	RedisPort     string `env:"REDIS_PORT"     env-default:"6379"`
	SessionSecret string `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`

	GinMode  string `env:"GIN_MODE"  env-default:"debug"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"INFO"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	// Login attempts per second and burst, per process.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT" env-default:"3"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" env-default:"3"`
}

// Load reads a .env file when one is present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
