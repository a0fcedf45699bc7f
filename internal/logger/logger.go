package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const componentKey = "component"

// ValidLogLevels holds the log levels accepted in configuration.
var ValidLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// LoggingConfig is the subset of logging configuration needed to build component loggers.
// It is implemented by config.LoggingConfig.
type LoggingConfig interface {
	GetComponentLevel(component string) string
	GetDefaultLevel() string
	IsDevelopment() bool
}

// Logger wraps zap.SugaredLogger so every component logs through the same structured
// and printf-style API.
type Logger struct {
	*zap.SugaredLogger

	level     zap.AtomicLevel
	component string
}

// NewLogger builds a logger at the given level ("debug", "info", "warn" or "error").
// Development mode switches to a colored console encoder with stack traces on warnings.
func NewLogger(level string, development bool) (*Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: zl.Sugar(), level: cfg.Level}, nil
}

// NewComponentLoggerFromConfig creates a logger tagged with component at the level configured
// for it. A nil config yields an info level production logger. Loggers are built during startup,
// so an invalid level panics.
func NewComponentLoggerFromConfig(component string, cfg LoggingConfig) *Logger {
	level, development := "info", false
	if cfg != nil {
		level, development = cfg.GetComponentLevel(component), cfg.IsDevelopment()
	}

	l, err := NewLogger(level, development)
	if err != nil {
		panic(err)
	}

	return l.WithComponent(component)
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		level:         zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
}

// WithComponent returns a child logger carrying a component field. It shares its parent's level.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		SugaredLogger: l.With(componentKey, component),
		level:         l.level,
		component:     component,
	}
}

// GetComponent returns the component the logger is bound to, if any.
func (l *Logger) GetComponent() string {
	return l.component
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() string {
	return l.level.Level().String()
}
