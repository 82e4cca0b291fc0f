package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	rootModule     = "richtext"
	articlesModule = "richtext.articles"
	legacyModule   = "richtext.legacy"
	commandsModule = "richtext.commands"
)

const (
	fieldSlug   = "slug"
	fieldLocale = "locale"
	fieldAction = "action"
	fieldPath   = "source_path"
)

// ModuleLogger resolves the logger for module from provider and tags it with a
// "module" field. A nil provider, or one returning nil, yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// ArticlesLogger returns the logger used by the articles service and migrator.
func ArticlesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, articlesModule)
}

// LegacyLogger returns the logger used by the legacy importer.
func LegacyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, legacyModule)
}

// CommandLogger returns the logger for a named command handler, nested under
// richtext.commands.
func CommandLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithArticleContext adds slug, locale and action fields, skipping blanks.
func WithArticleContext(logger interfaces.Logger, slug, locale, action string) interfaces.Logger {
	return WithFields(logger, nonEmptyFields(
		fieldSlug, slug,
		fieldLocale, locale,
		fieldAction, action,
	))
}

// WithSourceContext adds the legacy source path and action fields.
func WithSourceContext(logger interfaces.Logger, path, action string) interfaces.Logger {
	return WithFields(logger, nonEmptyFields(
		fieldPath, path,
		fieldAction, action,
	))
}

func nonEmptyFields(pairs ...string) map[string]any {
	fields := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if value := strings.TrimSpace(pairs[i+1]); value != "" {
			fields[pairs[i]] = value
		}
	}
	return fields
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger     { return n }
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
