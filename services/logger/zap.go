package logsvc

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
)

// NewZapLogger builds the local log sink: JSON in production, console otherwise.
func NewZapLogger(conf *core.Config) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(conf.Env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if conf.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if conf.TestMode {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.OutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
