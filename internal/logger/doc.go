// Package logger wraps zap to provide the unit's diagnostic text stream:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and per-component level overrides,
//   - convenience functions (Infof, WarnKV, etc.) that take a context.
//
// Components receive a context and extract the logger from it, so every
// line carries the component name it came from.
package logger
