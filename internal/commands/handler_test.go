package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	goerrors "github.com/goliatone/go-errors"
)

type publishPost struct {
	Slug string
}

func (publishPost) Type() string { return "blog.test.publish" }

func (m publishPost) Validate() error {
	if strings.TrimSpace(m.Slug) == "" {
		return errors.New("slug required")
	}
	return nil
}

func TestHandlerRunsValidMessage(t *testing.T) {
	var published []string
	h := NewHandler(func(_ context.Context, msg publishPost) error {
		published = append(published, msg.Slug)
		return nil
	})

	if err := h.Execute(context.Background(), publishPost{Slug: "hello-world"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(published) != 1 || published[0] != "hello-world" {
		t.Fatalf("unexpected published slugs %v", published)
	}
}

func TestHandlerRejectsInvalidMessageBeforeRunning(t *testing.T) {
	ran := false
	h := NewHandler(func(context.Context, publishPost) error {
		ran = true
		return nil
	})

	err := h.Execute(context.Background(), publishPost{Slug: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if ran {
		t.Fatal("handler ran for an invalid message")
	}
}

func TestHandlerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	h := NewHandler(func(context.Context, publishPost) error {
		ran = true
		return nil
	})

	err := h.Execute(ctx, publishPost{Slug: "late"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if ran {
		t.Fatal("handler ran after cancellation")
	}
}

func TestHandlerTagsPlainFailures(t *testing.T) {
	h := NewHandler(func(context.Context, publishPost) error {
		return errors.New("disk full")
	})

	err := h.Execute(context.Background(), publishPost{Slug: "draft"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !strings.Contains(err.Error(), "blog command failed") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestHandlerKeepsExistingCategory(t *testing.T) {
	notFound := goerrors.New("post missing", goerrors.CategoryNotFound)
	h := NewHandler(func(context.Context, publishPost) error {
		return notFound
	})

	err := h.Execute(context.Background(), publishPost{Slug: "ghost"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category to survive, got %v", err)
	}
}

func TestHandlerDeadline(t *testing.T) {
	h := NewHandler(func(ctx context.Context, _ publishPost) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return nil
		}
	}, WithTimeout[publishPost](5*time.Millisecond))

	err := h.Execute(context.Background(), publishPost{Slug: "slow"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for deadline, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestHandlerTelemetryCarriesMessageFields(t *testing.T) {
	var got TelemetryInfo
	var seen map[string]any
	h := NewHandler(func(ctx context.Context, _ publishPost) error {
		seen = logging.ContextFields(ctx)
		return nil
	},
		WithOperation[publishPost]("posts.publish"),
		WithMessageFields(func(msg publishPost) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
		WithTelemetry(func(_ context.Context, _ publishPost, info TelemetryInfo) {
			got = info
		}),
	)

	if err := h.Execute(context.Background(), publishPost{Slug: "fields"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Status != TelemetryStatusSuccess {
		t.Fatalf("expected success status, got %q", got.Status)
	}
	if got.Command != "blog.test.publish" || got.Operation != "posts.publish" {
		t.Fatalf("unexpected telemetry identity %+v", got)
	}
	if got.Fields["slug"] != "fields" {
		t.Fatalf("expected slug field in telemetry, got %v", got.Fields)
	}
	if seen["operation"] != "posts.publish" || seen["slug"] != "fields" {
		t.Fatalf("expected fields on handler context, got %v", seen)
	}
}

func TestHandlerTelemetryReportsContextErrors(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler(func(context.Context, publishPost) error {
		return context.Canceled
	}, WithTelemetry(func(_ context.Context, _ publishPost, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(context.Background(), publishPost{Slug: "interrupted"})
	if err == nil {
		t.Fatal("expected error")
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context_error status, got %q", status)
	}
}
