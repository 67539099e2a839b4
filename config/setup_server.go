package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServerAddr     string         `yaml:"serverAddr"`
	FrontendURL    string         `yaml:"frontendURL"`
	IsProduction   bool           `yaml:"isProduction"`
	EnableDevAuth  bool           `yaml:"enableDevAuth"`
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	S3Config       S3Config       `yaml:"s3Config"`
	JWT            JWTConfig      `yaml:"jwt"`
	Telegram       TelegramConfig `yaml:"telegram"`
	Email          EmailConfig    `yaml:"email"`
	Cookie         CookieConfig   `yaml:"cookie"`
	TTL            TTL            `yaml:"TTL"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides подставляет секреты из окружения поверх yaml,
// чтобы не хранить их в файле конфигурации
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("TWEET_SERVER_JWT_SECRET"); v != "" {
		cfg.JWT.SecretKey = v
	}
	if v := os.Getenv("TWEET_SERVER_TG_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TWEET_SERVER_DB_DSN"); v != "" {
		cfg.DatabaseConfig.DSN = v
	}
	if v := os.Getenv("TWEET_SERVER_SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("TWEET_SERVER_S3_ACCESS_KEY"); v != "" {
		cfg.S3Config.AccessKey = v
	}
	if v := os.Getenv("TWEET_SERVER_S3_SECRET_KEY"); v != "" {
		cfg.S3Config.SecretKey = v
	}
}

// Validate проверяет инварианты конфигурации на старте процесса.
// Dev-авторизация по заголовкам в production запрещена.
func (cfg *AppConfig) Validate() error {
	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key не задан")
	}
	if cfg.IsProduction && cfg.EnableDevAuth {
		return fmt.Errorf("enableDevAuth запрещён в production конфигурации")
	}
	if cfg.Email.Retries <= 0 {
		cfg.Email.Retries = 3
	}
	return nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
