// Package bootstrap builds a richtext module and its command handlers for CLI
// entry points.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-richtext"
	"github.com/goliatone/go-richtext/commands"
	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
	"github.com/goliatone/go-richtext/internal/di"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Options captures the tunable configuration shared across richtext CLI commands.
// Blank fields keep the value loaded from ConfigPath and the environment.
type Options struct {
	ConfigPath     string
	Storage        string
	Driver         string
	DSN            string
	Path           string
	LegacyRoot     string
	LogLevel       string
	LoggerProvider interfaces.LoggerProvider
	// CronRegistrar receives the migrate handler when
	// commands.auto_register_cron is set.
	CronRegistrar  commands.CronRegistrar
	CommandOptions []articlescmd.Option
	DIOptions      []di.Option
}

// Resources groups the module runtime and the command handlers used by CLI commands.
type Resources struct {
	Config    richtext.Config
	Module    *richtext.Module
	Collector *CommandCollector
	Commands  *commands.RegistrationResult
}

// Close tears down dispatcher subscriptions and storage handles.
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	r.Commands.Close()
	return r.Module.Close()
}

// CommandCollector records handlers registered by the DI container so CLI commands can
// invoke them directly when dispatcher integrations are requested.
type CommandCollector struct {
	handlers []any
}

// RegisterCommand satisfies commands.CommandRegistry.
func (c *CommandCollector) RegisterCommand(handler any) error {
	c.handlers = append(c.handlers, handler)
	return nil
}

// Handlers returns the collected handlers.
func (c *CommandCollector) Handlers() []any {
	if c == nil || len(c.handlers) == 0 {
		return nil
	}
	out := make([]any, len(c.handlers))
	copy(out, c.handlers)
	return out
}

// BuildModule loads configuration, applies opts on top and constructs the module.
func BuildModule(opts Options) (*Resources, error) {
	cfg, err := richtext.LoadConfig(strings.TrimSpace(opts.ConfigPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	diOpts := append([]di.Option{}, opts.DIOptions...)
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := richtext.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise richtext module: %w", err)
	}

	collector := &CommandCollector{handlers: make([]any, 0)}
	regOpts := commands.RegistrationOptions{
		Registry:       collector,
		LoggerProvider: opts.LoggerProvider,
		HandlerOptions: opts.CommandOptions,
	}
	if cfg.Commands.AutoRegisterDispatcher {
		regOpts.Dispatcher = commands.Dispatcher{}
	}
	if cfg.Commands.AutoRegisterCron {
		regOpts.CronRegistrar = opts.CronRegistrar
	}

	result, err := commands.RegisterContainerCommands(module.Container(), regOpts)
	if err != nil {
		result.Close()
		_ = module.Close()
		return nil, fmt.Errorf("register richtext commands: %w", err)
	}

	return &Resources{
		Config:    cfg,
		Module:    module,
		Collector: collector,
		Commands:  result,
	}, nil
}

func applyOverrides(cfg *richtext.Config, opts Options) {
	if v := strings.TrimSpace(opts.Storage); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(opts.Driver); v != "" {
		cfg.Storage.Driver = v
	}
	if v := strings.TrimSpace(opts.DSN); v != "" {
		cfg.Storage.DSN = v
	}
	if v := strings.TrimSpace(opts.Path); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(opts.LegacyRoot); v != "" {
		cfg.Legacy.Root = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = v
	}
}
