package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the model or deployment identifier.
	FieldModel = "ai_model"
	// FieldPlatform is the short recruiting platform name.
	FieldPlatform = "platform"
	// FieldPlatformLabel is the platform tag written onto candidate records.
	FieldPlatformLabel = "platform_label"
	// FieldBatchID correlates the log lines of one batch screening run.
	FieldBatchID = "batch_id"
	// FieldAction is the message action being dispatched.
	FieldAction = "action"
)

// StringField is a key/value pair that is dropped from the log entry when either side is blank.
type StringField struct {
	Key   string
	Value string
}

// StringFields keeps the pairs whose trimmed key and value are both non-empty.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if k, v := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value); k != "" && v != "" {
			out = append(out, zap.String(k, v))
		}
	}
	return out
}

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the AI provider and model. Empty values are ignored.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// PlatformFields describes the recruiting platform an extractor works on.
func PlatformFields(name, label string) []zap.Field {
	return StringFields(
		StringField{Key: FieldPlatform, Value: name},
		StringField{Key: FieldPlatformLabel, Value: label},
	)
}
