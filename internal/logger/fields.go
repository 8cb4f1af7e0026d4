package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider names the question provider or AI backend of a log line.
	FieldProvider = "provider"
	// FieldModel is the AI model identifier.
	FieldModel = "ai_model"
	// FieldSession is the interview session identifier.
	FieldSession = "session_id"
	// FieldRequest is the HTTP request identifier.
	FieldRequest = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger, falling back to a no-op logger when
// logger is nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// AIFields describes an AI backend. Empty values are skipped.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// ForSession scopes logger to one interview session.
func ForSession(logger *zap.Logger, sessionID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldSession, Value: sessionID})...)
}

// ForProvider scopes logger to one question provider.
func ForProvider(logger *zap.Logger, provider string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldProvider, Value: provider})...)
}
