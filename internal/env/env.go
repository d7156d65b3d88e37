package env

import (
	"fmt"

	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ChatAddr           = "CHAT_ADDR"
	ChatAllowedOrigins = "CHAT_ALLOWED_ORIGINS"
	ChatQueueSize      = "CHAT_QUEUE_SIZE"
	ChatWorkers        = "CHAT_WORKERS"
	ChatPageURL        = "CHAT_PAGE_URL"
	ChatVariant        = "CHAT_VARIANT"
	WSHost             = "VITE_WS_HOST"
	WSPort             = "VITE_WS_PORT"
	LogLevel           = "LOG_LEVEL"
	LogPretty          = "LOG_PRETTY"
)

type ServerConfig struct {
	Addr           string   `env:"CHAT_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"CHAT_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	QueueSize      int      `env:"CHAT_QUEUE_SIZE" envDefault:"64"`
	Workers        int      `env:"CHAT_WORKERS" envDefault:"8"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool     `env:"LOG_PRETTY" envDefault:"false"`
}

type ClientConfig struct {
	PageURL   string `env:"CHAT_PAGE_URL" envDefault:"http://localhost:8080"`
	WSHost    string `env:"VITE_WS_HOST"`
	WSPort    string `env:"VITE_WS_PORT"`
	Variant   string `env:"CHAT_VARIANT" envDefault:"roster"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// LoadServer reads the relay configuration from the environment, after
// merging a .env file from the working directory when one exists.
func LoadServer() (ServerConfig, error) {
	_ = godotenv.Load()
	cfg, err := envparse.ParseAs[ServerConfig]()
	if err != nil {
		return ServerConfig{}, fmt.Errorf("env: parse server config: %w", err)
	}
	if cfg.Workers < 1 {
		return ServerConfig{}, fmt.Errorf("env: %s must be at least 1, got %d", ChatWorkers, cfg.Workers)
	}
	if cfg.QueueSize < 0 {
		return ServerConfig{}, fmt.Errorf("env: %s must not be negative, got %d", ChatQueueSize, cfg.QueueSize)
	}
	return cfg, nil
}

func LoadClient() (ClientConfig, error) {
	_ = godotenv.Load()
	cfg, err := envparse.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("env: parse client config: %w", err)
	}
	return cfg, nil
}
