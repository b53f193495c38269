package config

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide sugared logger. Mode comes from APP_ENV;
// anything other than prod/production gets the development encoder.
func NewLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
