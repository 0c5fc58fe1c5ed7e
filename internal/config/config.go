package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	KafkaBrokers  string        `env:"KAFKA_BROKERS"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`

	Database Database `envPrefix:"DB_"`
	SMTP     SMTP     `envPrefix:"SMTP_"`
	Telegram Telegram `envPrefix:"TELEGRAM_"`
}

type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"storefront"`
	Password string `env:"PASSWORD" envDefault:"storefront"`
	Name     string `env:"NAME" envDefault:"storefront"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USER"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
	To       string `env:"TO"`
}

type Telegram struct {
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://api.telegram.org"`
	BotToken   string `env:"BOT_TOKEN"`
	ChatID     string `env:"CHAT_ID"`
}

// Watcher configures the standalone new-order poller.
type Watcher struct {
	APIURL   string        `env:"API_URL" envDefault:"http://localhost:8080"`
	Interval time.Duration `env:"POLL_INTERVAL" envDefault:"10s"`
	Limit    int           `env:"POLL_LIMIT" envDefault:"50"`
}

// Load reads configuration from the environment, with a local .env file
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func LoadWatcher() (*Watcher, error) {
	_ = godotenv.Load()

	cfg := &Watcher{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
