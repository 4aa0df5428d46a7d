package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger production: JSON, development: цветной консольный вывод.
// Каждая запись помечается именем процесса (bot, rentalctl).
func NewLogger(env, name string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.InitialFields = map[string]interface{}{"app": name}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

// MustLogger как NewLogger, но падает при ошибке (для main)
func MustLogger(env, name string) *zap.Logger {
	logger, err := NewLogger(env, name)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
