package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type archivePost struct {
	Slug string
}

func (archivePost) Type() string { return "blog.test.archive" }

func (archivePost) Validate() error { return nil }

type unpublishPost struct {
	Slug string
}

func (unpublishPost) Type() string { return "blog.test.unpublish" }

func (unpublishPost) Validate() error { return nil }

func TestDispatchedArchiveRetriesTransientFailure(t *testing.T) {
	var mu sync.Mutex
	var archived []string
	attempts := 0

	handler := NewHandler(func(_ context.Context, msg archivePost) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("database locked")
		}
		archived = append(archived, msg.Slug)
		return nil
	}, WithTimeout[archivePost](time.Second), WithOperation[archivePost]("posts.archive"))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), archivePost{Slug: "old-news"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}
	if len(archived) != 1 || archived[0] != "old-news" {
		t.Fatalf("unexpected archived slugs %v", archived)
	}
}

func TestDispatchedUnpublishSurfacesFinalError(t *testing.T) {
	attempts := 0
	handler := NewHandler(func(context.Context, unpublishPost) error {
		attempts++
		return errors.New("post is locked")
	}, WithTimeout[unpublishPost](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), unpublishPost{Slug: "pinned"}); err == nil {
		t.Fatal("expected error once retries are exhausted")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
