package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramChatID      int64  `env:"TELEGRAM_CHAT_ID,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	DBDriver          string        `env:"DB_DRIVER,default=sqlite"`
	DBPath            string        `env:"DB_PATH,default=tickersentry.db"`
	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	OpenAIAPIKey        string        `env:"OPENAI_API_KEY,required"`
	OpenAIModel         string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	OpenAIResearchModel string        `env:"OPENAI_RESEARCH_MODEL,default=gpt-4.1"`
	OpenAITimeout       time.Duration `env:"OPENAI_TIMEOUT,default=2m"`

	CycleIntervalMinutes int           `env:"CYCLE_INTERVAL_MINUTES,default=60"`
	MovementThreshold    float64       `env:"MOVEMENT_THRESHOLD,default=0.01"`
	QuoteTimeout         time.Duration `env:"QUOTE_TIMEOUT,default=10s"`
	CycleConcurrency     int           `env:"CYCLE_CONCURRENCY,default=4"`
	MaxTrackedSymbols    int           `env:"MAX_TRACKED_SYMBOLS,default=50"`
	AlertRetentionDays   int           `env:"ALERT_RETENTION_DAYS,default=0"`

	LogLevel      string `env:"LOG_LEVEL,default=info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,default=10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS,default=5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS,default=30"`
}

func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) CycleInterval() time.Duration {
	return time.Duration(c.CycleIntervalMinutes) * time.Minute
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DBDriver == DriverSQLite && c.DBPath == "" {
		return errors.New("DB_PATH is required when DB_DRIVER=sqlite")
	}
	if c.DBDriver == DriverPostgres {
		if c.DBHost == "" {
			return errors.New("DB_HOST is required when DB_DRIVER=postgres")
		}
		if c.DBUser == "" {
			return errors.New("DB_USER is required when DB_DRIVER=postgres")
		}
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD is required when DB_DRIVER=postgres")
		}
		if c.DBName == "" {
			return errors.New("DB_NAME is required when DB_DRIVER=postgres")
		}
	}
	if c.CycleIntervalMinutes < 1 || c.CycleIntervalMinutes > 1440 {
		return fmt.Errorf("CYCLE_INTERVAL_MINUTES must be between 1 and 1440, got %d", c.CycleIntervalMinutes)
	}
	if c.MovementThreshold <= 0 || c.MovementThreshold >= 1 {
		return fmt.Errorf("MOVEMENT_THRESHOLD must be between 0 and 1 exclusive, got %g", c.MovementThreshold)
	}
	if c.QuoteTimeout <= 0 {
		return errors.New("QUOTE_TIMEOUT must be positive")
	}
	if c.CycleConcurrency < 1 {
		return errors.New("CYCLE_CONCURRENCY must be >= 1")
	}
	if c.MaxTrackedSymbols < 1 {
		return errors.New("MAX_TRACKED_SYMBOLS must be >= 1")
	}
	if c.AlertRetentionDays < 0 {
		return errors.New("ALERT_RETENTION_DAYS must be >= 0")
	}
	if c.TelegramPollTimeout < 1 {
		return errors.New("TELEGRAM_POLL_TIMEOUT must be >= 1")
	}
	return nil
}
