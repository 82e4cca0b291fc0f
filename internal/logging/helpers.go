package logging

import (
	"maps"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// WithFields applies fields when logger implements interfaces.FieldsLogger and
// returns logger unchanged otherwise. The map is copied before it is handed on.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}
