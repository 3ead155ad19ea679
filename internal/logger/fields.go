package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by screening, storage and HTTP logs.
const (
	FieldFilename  = "filename"
	FieldDomain    = "domain"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace and
// dropping entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithDocument tags a logger with the document being screened.
func WithDocument(logger *zap.Logger, filename, domain string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldFilename, Value: filename},
		StringField{Key: FieldDomain, Value: domain},
	)...)
}

// WithModel tags a logger with the AI provider and model in use.
func WithModel(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}
