package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger wraps uber/zap to implement the Logger interface
type ZapLogger struct {
	zap         *zap.Logger
	serviceName string
}

// ZapOptions configures the Zap logger
type ZapOptions struct {
	ServiceName string
	IsPretty    bool  // Enable pretty console output (for development)
	Level       Level // Minimum log level
}

// NewZap creates a new Zap-based logger
func NewZap(opts ZapOptions) (Logger, error) {
	var config zap.Config

	if opts.IsPretty {
		// Development mode: pretty console output
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// Production mode: JSON output
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
	}
	config.Level = zap.NewAtomicLevelAt(opts.Level.ToZapLevel())
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build(
		zap.AddCallerSkip(1), // Skip one level to show correct caller
	)
	if err != nil {
		return nil, err
	}

	return NewZapFromCore(zapLogger, opts.ServiceName), nil
}

// NewZapFromCore wraps an existing zap.Logger, e.g. one built on an observer core in tests
func NewZapFromCore(z *zap.Logger, serviceName string) *ZapLogger {
	return &ZapLogger{
		zap:         z.With(zap.String("service", serviceName)),
		serviceName: serviceName,
	}
}

func (z *ZapLogger) convertContext(context []any) []zap.Field {
	contextMap := ParseContext(context)
	if len(contextMap) == 0 {
		return nil
	}

	// Stable field order keeps JSON output diffable
	keys := make([]string, 0, len(contextMap))
	for key := range contextMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		value := contextMap[key]
		if err, ok := value.(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, value))
	}

	return fields
}

func (z *ZapLogger) Debug(msg string, context ...any) {
	z.zap.Debug(msg, z.convertContext(context)...)
}

func (z *ZapLogger) Info(msg string, context ...any) {
	z.zap.Info(msg, z.convertContext(context)...)
}

func (z *ZapLogger) Warn(msg string, context ...any) {
	z.zap.Warn(msg, z.convertContext(context)...)
}

func (z *ZapLogger) Error(msg string, context ...any) {
	z.zap.Error(msg, z.convertContext(context)...)
}

// With creates a child logger with additional fields
func (z *ZapLogger) With(context ...any) Logger {
	return &ZapLogger{
		zap:         z.zap.With(z.convertContext(context)...),
		serviceName: z.serviceName,
	}
}

// Sync flushes any buffered log entries
// Should be called before application exits
func (z *ZapLogger) Sync() error {
	return z.zap.Sync()
}
