package logger

import (
	"dizzycode.xyz/strategy-runtime/internal/infrastructure/config"
	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

const serviceName = "strategy-runtime"

// New creates a logger instance based on configuration
func New(cfg *config.Config) (logger.Logger, error) {
	return logger.NewZap(logger.ZapOptions{
		ServiceName: serviceName,
		IsPretty:    cfg.IsDevelopment(),
		Level:       logger.ParseLevel(cfg.LogLevel),
	})
}

// Must creates a logger and panics on error
func Must(cfg *config.Config) logger.Logger {
	log, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return log
}
