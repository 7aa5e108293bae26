package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("blog.migrate")
	logger = logging.WithFields(logger, map[string]any{"module": "blog.migrate"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"dry_run": true,
	})
	logger = logger.WithContext(ctx)

	logger.Error("migrate.file.failed",
		"file", "hello-world.md",
		"error", errors.New("store offline"),
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z ERROR migrate.file.failed dry_run=true error="store offline" file=hello-world.md logger=blog.migrate module=blog.migrate`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
		OmitTime: true,
	})

	logger := provider.GetLogger("blog.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if lines[0] != "INFO included.info foo=bar logger=blog.test" {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestConsoleLogger_OddArgsArePositional(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, OmitTime: true})

	provider.GetLogger("blog").Warn("odd", "count", 3, "dangling")

	got := strings.TrimSpace(buf.String())
	if got != "WARN odd count=3 field_1=dangling logger=blog" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		" warn ":  console.LevelWarn,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
		"bogus":   console.LevelInfo,
		"":        console.LevelInfo,
	}
	for input, want := range cases {
		if got := console.ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
