package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	command "github.com/goliatone/go-command"

	articlescmd "github.com/goliatone/go-richtext/internal/commands/articles"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
)

func TestBuildModuleDefaults(t *testing.T) {
	res, err := BuildModule(Options{})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	t.Cleanup(func() { _ = res.Close() })

	if res.Config.Storage.Backend != runtimeconfig.BackendMemory {
		t.Fatalf("expected memory backend, got %q", res.Config.Storage.Backend)
	}
	if len(res.Collector.Handlers()) != 3 {
		t.Fatalf("expected 3 collected handlers, got %d", len(res.Collector.Handlers()))
	}
	if res.Commands.Articles == nil || res.Commands.Articles.Import == nil {
		t.Fatal("expected import handler to be registered")
	}
}

func TestBuildModuleAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.bolt")

	res, err := BuildModule(Options{
		Storage:    runtimeconfig.BackendBolt,
		Path:       path,
		LegacyRoot: t.TempDir(),
		LogLevel:   "error",
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	t.Cleanup(func() { _ = res.Close() })

	if res.Config.Storage.Path != path {
		t.Fatalf("expected bolt path override, got %q", res.Config.Storage.Path)
	}
	if !res.Config.Features.Logger || res.Config.Logging.Level != "error" {
		t.Fatalf("expected logger enabled at error level, got %#v", res.Config.Logging)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected bolt file to be created: %v", err)
	}
}

func TestBuildModuleReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "richtext.yaml")
	content := "default_locale: fr\nfeatures:\n  legacy_import: false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	res, err := BuildModule(Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	t.Cleanup(func() { _ = res.Close() })

	if res.Config.DefaultLocale != "fr" {
		t.Fatalf("expected default locale fr, got %q", res.Config.DefaultLocale)
	}
	for _, handler := range res.Collector.Handlers() {
		if _, ok := handler.(*articlescmd.ImportLegacyHandler); ok {
			t.Fatal("expected import handler to be skipped when legacy import is disabled")
		}
	}
}

func TestBuildModuleRejectsMissingConfig(t *testing.T) {
	if _, err := BuildModule(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestBuildModuleRejectsInvalidOverride(t *testing.T) {
	if _, err := BuildModule(Options{Storage: "tape"}); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestBuildModuleRegistersCronWhenEnabled(t *testing.T) {
	t.Setenv("RICHTEXT_COMMANDS_AUTO_REGISTER_CRON", "true")
	t.Setenv("RICHTEXT_MIGRATION_CRON", "@daily")

	var expressions []string
	res, err := BuildModule(Options{
		CronRegistrar: func(cfg command.HandlerConfig, _ any) error {
			expressions = append(expressions, cfg.Expression)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	t.Cleanup(func() { _ = res.Close() })

	if len(expressions) != 1 || expressions[0] != "@daily" {
		t.Fatalf("expected migrate handler scheduled @daily, got %v", expressions)
	}
}
