package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-richtext/internal/logging/console"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

type testMessage struct {
	Slug string
}

func (testMessage) Type() string { return "richtext.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "richtext.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func bufferLogger(buf *bytes.Buffer) interfaces.Logger {
	provider := console.NewProvider(console.Options{
		Writer:   buf,
		MinLevel: console.LevelTrace,
		TimeFunc: func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	return provider.GetLogger("test")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected wrapped error to unwrap to the cause, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestHandlerLogsMessageFields(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithLogger[testMessage](bufferLogger(&buf)),
		WithOperation[testMessage]("articles.normalize"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
	)

	if err := h.Execute(context.Background(), testMessage{Slug: "dosage"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"DEBUG command.execute.start",
		"INFO command.execute.success",
		"command=richtext.test.message",
		"operation=articles.normalize",
		"slug=dosage",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	ticks := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, int(250*time.Millisecond), time.UTC),
	}
	var got []TelemetryInfo
	execErr := errors.New("store failed")

	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	},
		WithOperation[testMessage]("articles.normalize"),
		WithClock[testMessage](func() time.Time {
			now := ticks[0]
			ticks = ticks[1:]
			return now
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			got = append(got, info)
		}),
	)

	err := h.Execute(context.Background(), testMessage{Slug: "dosage"})
	if !errors.Is(err, execErr) {
		t.Fatalf("expected exec error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(got))
	}
	info := got[0]
	if info.Status != TelemetryStatusFailed || info.Duration != 250*time.Millisecond {
		t.Fatalf("unexpected telemetry info %+v", info)
	}
	if info.Command != "richtext.test.message" || info.Operation != "articles.normalize" {
		t.Fatalf("unexpected telemetry identity %+v", info)
	}
	if !goerrors.IsCategory(info.Error, goerrors.CategoryCommand) {
		t.Fatalf("expected wrapped error in telemetry, got %v", info.Error)
	}
}

func TestDefaultTelemetryLogsDuration(t *testing.T) {
	var buf bytes.Buffer
	telemetry := DefaultTelemetry[testMessage](bufferLogger(&buf))
	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Fields:   map[string]any{"slug": "dosage"},
		Duration: 1500 * time.Millisecond,
		Status:   TelemetryStatusSuccess,
	})
	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Duration: time.Millisecond,
		Status:   TelemetryStatusContextError,
		Error:    context.Canceled,
	})

	out := buf.String()
	for _, want := range []string{
		"INFO command.execute.success duration_ms=1500",
		"slug=dosage",
		"ERROR command.execute.context_error duration_ms=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCommandLoggerDefaultsModule(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	CommandLogger(provider, " ").Info("ping")

	out := buf.String()
	for _, want := range []string{"component=command", "command_module=core", "logger=richtext.commands.core"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestHandlerPropagatesFieldsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	inner := bufferLogger(&buf)

	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		inner.WithContext(ctx).Info("inner.work")
		return nil
	}, WithOperation[testMessage]("articles.normalize"), WithMessageFields(func(msg testMessage) map[string]any {
		return map[string]any{"slug": msg.Slug}
	}))

	if err := h.Execute(context.Background(), testMessage{Slug: "intro"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var line string
	for _, candidate := range strings.Split(buf.String(), "\n") {
		if strings.Contains(candidate, "inner.work") {
			line = candidate
		}
	}
	for _, want := range []string{"command=richtext.test.message", "operation=articles.normalize", "slug=intro"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}
