package app

import (
	"os"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/logx"
)

// NewLogger returns the process-wide JSON logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel)
}
