package config

import (
	"go.uber.org/zap"
)

// Logger builds a production zap logger at the configured level.
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level

	return cfg.Build()
}
