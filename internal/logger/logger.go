// Package logger builds the structured logger used for the payments
// channel.
package logger

import (
	"go.uber.org/zap"
)

// New creates a production zap logger at the given level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
