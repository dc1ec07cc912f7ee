package logger

import "fmt"

// Logger is the structured logging interface shared by every layer.
//
// context is either a single map[string]any or alternating key/value pairs:
//
//	log.Info("Trade executed", map[string]any{"symbol": "AAPL"})
//	log.Info("Trade executed", "symbol", "AAPL")
type Logger interface {
	Debug(msg string, context ...any)
	Info(msg string, context ...any)
	Warn(msg string, context ...any)
	Error(msg string, context ...any)

	// With returns a child logger that adds context to every entry
	With(context ...any) Logger

	// Sync flushes any buffered log entries
	Sync() error
}

// ParseContext normalizes the variadic context of a log call into a map.
// A dangling key without a value is kept under "!BADKEY".
func ParseContext(context []any) map[string]any {
	if len(context) == 0 {
		return nil
	}

	if len(context) == 1 {
		switch v := context[0].(type) {
		case nil:
			return nil
		case map[string]any:
			return v
		default:
			return map[string]any{"!BADKEY": v}
		}
	}

	result := make(map[string]any, len(context)/2+1)
	for i := 0; i < len(context); i += 2 {
		if i+1 >= len(context) {
			result["!BADKEY"] = context[i]
			break
		}

		key, ok := context[i].(string)
		if !ok {
			key = fmt.Sprint(context[i])
		}
		result[key] = context[i+1]
	}

	return result
}

// nopLogger discards all output
type nopLogger struct{}

// NewNop creates a logger that discards all output
// Useful for testing
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Sync() error { return nil }
