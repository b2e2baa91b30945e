package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Уровень: debug, info, warn, error
	Level string
	// Формат логов (json/console)
	Format string
	// Выходной поток (os.Stdout, файл и т.д.)
	Output io.Writer
}

// InitLogger настраивает глобальный zerolog логгер и возвращает его
func InitLogger(config ...LoggerConfig) zerolog.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "2006-01-02 15:04:05"}
	}

	logger := zerolog.New(out).With().Timestamp().Str("service", "dsa-tracker").Logger()
	log.Logger = logger
	return logger
}
