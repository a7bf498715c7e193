package app

import (
	"os"

	"service-rider-web/internal/config"
	"service-rider-web/internal/logx"
)

// NewLogger returns the JSON logger writing to stdout at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, logx.ParseLevel(cfg.LogLevel)).
		With(logx.String("service", "service-rider-web"))
}
