package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-richtext/internal/commands"
	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
	"github.com/goliatone/go-richtext/internal/di"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// MigrationCron overrides the schedule from Config.Migration.Cron.
	MigrationCron string
	// HandlerOptions are forwarded to the article command registration.
	HandlerOptions []articlescmd.Option
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	Articles      *articlescmd.HandlerSet
}

// Close releases every dispatcher subscription.
func (r *RegistrationResult) Close() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config
	if !cfg.Commands.Enabled {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	gates := articlescmd.FeatureGates{
		MigrationEnabled:    func() bool { return cfg.Features.Migration },
		LegacyImportEnabled: func() bool { return cfg.Features.LegacyImport },
	}

	cronExpr := strings.TrimSpace(opts.MigrationCron)
	if cronExpr == "" {
		cronExpr = cfg.Migration.Cron
	}
	handlerOpts := append([]articlescmd.Option{
		articlescmd.WithMigrationCron(cronExpr, articlescmd.MigrateArticlesCommand{Workers: cfg.Migration.Workers}),
	}, opts.HandlerOptions...)

	services := articlescmd.Services{
		Articles: container.ArticleService(),
		Migrator: container.Migrator(),
	}
	if cfg.Features.LegacyImport {
		services.Importer = container.Importer()
	}

	set, err := articlescmd.RegisterArticleCommands(nil, services, provider, gates, handlerOpts...)
	if err != nil {
		return result, err
	}
	result.Articles = set

	register(set.Normalize)
	if cfg.Features.Migration {
		register(set.Migrate)
	}
	if set.Import != nil {
		register(set.Import)
	}

	commands.CommandLogger(provider, "registration").Debug("commands.registered",
		"handlers", len(result.Handlers),
		"subscriptions", len(result.Subscriptions),
	)

	return result, errs
}
