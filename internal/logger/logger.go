package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the shared logger instance used throughout the application.
	//nolint:gochecknoglobals // The diagnostic stream is process-wide.
	global *zap.SugaredLogger
	// globalLevel is the minimum level of the global logger, adjustable at runtime.
	//nolint:gochecknoglobals // Shared with global.
	globalLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // Without a logger the unit would start silently.
	SetLogger(New(globalLevel, zapcore.AddSync(os.Stdout)))
}

// New creates a sugared logger writing console-formatted lines to out.
// A nil level falls back to the global level.
func New(level zapcore.LevelEnabler, out zapcore.WriteSyncer, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	//nolint:exhaustruct // Default encoder values are fine for the rest.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "component",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})

	return zap.New(zapcore.NewCore(encoder, out, level), options...).Sugar()
}

// ParseLogLevel converts a level name to a zap level.
// Unknown names yield InfoLevel and false.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// Level returns the current level of the global logger.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// SetLogger replaces the global logger. It is not thread-safe and is meant
// for process start and tests.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// SetLevel changes the level of the global logger.
func SetLevel(level zapcore.Level) {
	//nolint:errcheck // Sync errors on stdout are not actionable.
	defer global.Sync()

	globalLevel.SetLevel(level)
}
