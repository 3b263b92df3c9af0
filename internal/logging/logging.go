package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
)

// Config controls logger construction.
type Config struct {
	Level       string // debug, info, warn, error
	File        string // when set, JSON logs are also written here with rotation
	Development bool
}

// New builds a zap logger: console output on stdout, plus a rotated JSON file
// when a log file is configured.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return logger, nil
}

// engineLogger adapts a zap logger to the calculation engine's minimal
// Logger interface.
type engineLogger struct {
	s *zap.SugaredLogger
}

// NewEngineLogger wraps l for use by the projection engine.
func NewEngineLogger(l *zap.Logger) calculation.Logger {
	return engineLogger{s: l.Sugar()}
}

func (l engineLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l engineLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l engineLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l engineLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
