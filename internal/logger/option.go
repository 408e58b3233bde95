package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelCore overrides the level of a wrapped core so that one component can
// be louder or quieter than the rest of the diagnostic stream.
type levelCore struct {
	zapcore.Core

	// level is the minimum level this core lets through.
	level zapcore.Level
}

// Enabled reports whether entries at l pass the override.
func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the checked entry when the override allows it.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the override on derived loggers.
//
//nolint:ireturn,nolintlint // zapcore.Core is the required return type.
func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel returns an option that filters a logger at lvl regardless of the
// level of the logger it is derived from.
//
//nolint:ireturn,nolintlint // zap.Option is the required return type.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{
			Core:  core,
			level: lvl,
		}
	})
}
