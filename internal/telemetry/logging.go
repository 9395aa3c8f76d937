package telemetry

import (
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// LoggerConfig describes the process logger.
type LoggerConfig struct {
	Level   string
	Service string
	Version string
	// Secrets are masked wherever they appear in messages, string fields
	// or errors. Empty values are ignored.
	Secrets []string
	// OutputPaths defaults to stdout.
	OutputPaths []string
}

// ParseLevel maps a level name to a zap level, falling back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger creates a JSON zap logger named after the service, tagged with
// its version and wrapped for OpenTelemetry.
func NewLogger(cfg LoggerConfig) (*otelzap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	config.Encoding = "json"
	config.OutputPaths = []string{"stdout"}
	if len(cfg.OutputPaths) > 0 {
		config.OutputPaths = cfg.OutputPaths
	}
	config.ErrorOutputPaths = []string{"stderr"}

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}
	if cfg.Version != "" {
		opts = append(opts, zap.Fields(zap.String("version", cfg.Version)))
	}
	if len(cfg.Secrets) > 0 {
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return Redact(core, cfg.Secrets...)
		}))
	}

	zapLogger, err := config.Build(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Service != "" {
		zapLogger = zapLogger.Named(cfg.Service)
	}

	return otelzap.New(zapLogger), nil
}

// Redact wraps core so that every occurrence of a secret is masked before
// it is encoded.
func Redact(core zapcore.Core, secrets ...string) zapcore.Core {
	var pairs []string
	for _, s := range secrets {
		if s != "" {
			pairs = append(pairs, s, redacted)
		}
	}
	if len(pairs) == 0 {
		return core
	}
	return &redactCore{Core: core, replacer: strings.NewReplacer(pairs...)}
}

type redactCore struct {
	zapcore.Core
	replacer *strings.Replacer
}

func (c *redactCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactCore{Core: c.Core.With(c.redact(fields)), replacer: c.replacer}
}

func (c *redactCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.replacer.Replace(ent.Message)
	return c.Core.Write(ent, c.redact(fields))
}

func (c *redactCore) redact(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			f.String = c.replacer.Replace(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				if msg := c.replacer.Replace(err.Error()); msg != err.Error() {
					f = zap.String(f.Key, msg)
				}
			}
		}
		out[i] = f
	}
	return out
}
