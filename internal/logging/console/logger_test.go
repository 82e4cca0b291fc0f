package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/logging/console"
)

func TestLoggerWritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: console.LevelDebug,
	})

	logger := provider.GetLogger("richtext.articles")
	logger = logging.WithFields(logger, map[string]any{"module": "richtext.articles"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"run_id": "r-1"})
	logger = logger.WithContext(ctx)

	logger.Info("article.normalized", "slug", "getting-started", "duration", 1500*time.Millisecond)

	want := "2024-03-14T15:09:26.535897Z INFO article.normalized duration=1.5s logger=richtext.articles module=richtext.articles run_id=r-1 slug=getting-started\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected entry\nwant: %q\ngot:  %q", want, got)
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: console.LevelWarn})

	logger := provider.GetLogger("richtext")
	logger.Info("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "WARN kept") {
		t.Fatalf("expected only the warn entry, got %q", buf.String())
	}
}

func TestLoggerQuotesAndPositionalArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	provider.GetLogger("x").Error("failed", "error", errors.New("disk full"), "title", "", "dangling")

	got := buf.String()
	for _, want := range []string{`error="disk full"`, `title=""`, `arg_4=dangling`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %q", want, got)
		}
	}
}

func TestWithFieldsDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	parent := provider.GetLogger("x")
	child := logging.WithFields(parent, map[string]any{"slug": "a"})
	parent.Info("parent")
	child.Info("child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if strings.Contains(lines[0], "slug=") || !strings.Contains(lines[1], "slug=a") {
		t.Fatalf("unexpected field propagation: %q", lines)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  console.Level
		err   bool
	}{
		{"trace", console.LevelTrace, false},
		{"DEBUG", console.LevelDebug, false},
		{"", console.LevelInfo, false},
		{" warning ", console.LevelWarn, false},
		{"error", console.LevelError, false},
		{"fatal", console.LevelFatal, false},
		{"verbose", console.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := console.ParseLevel(tt.input)
		if (err != nil) != tt.err {
			t.Fatalf("ParseLevel(%q) error = %v, want error %v", tt.input, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
