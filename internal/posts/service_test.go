package posts_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	fixedNow = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	alice    = &interfaces.Session{UserID: "alice", DisplayName: "Alice"}
	bob      = &interfaces.Session{UserID: "bob"}
)

func newMemoryService(opts ...posts.ServiceOption) posts.Service {
	store := posts.NewMemoryStore()
	return posts.NewService(store, store, append([]posts.ServiceOption{posts.WithClock(fixedNow)}, opts...)...)
}

func sampleInput(title, date string) interfaces.PostInput {
	return interfaces.PostInput{
		Title:   title,
		Content: "Body",
		Excerpt: "Intro",
		Author:  "Jane",
		Date:    date,
		Tags:    []string{"go"},
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, sampleInput("Hello World!", "2024-01-15"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "hello-world" || created.Slug != "hello-world" {
		t.Fatalf("expected slug derived from title, got id=%q slug=%q", created.ID, created.Slug)
	}
	if created.CreatedAt != "2024-05-01T09:30:00Z" || created.UpdatedAt != created.CreatedAt {
		t.Fatalf("unexpected timestamps %q %q", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.Get(ctx, "hello-world")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("get mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceCreateRequiresSession(t *testing.T) {
	svc := newMemoryService()
	if _, err := svc.Create(context.Background(), nil, sampleInput("Hello", "2024-01-15")); !errors.Is(err, posts.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}

	open := newMemoryService(posts.WithRequireAuth(false))
	if _, err := open.Create(context.Background(), nil, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("expected anonymous create to pass when auth is optional, got %v", err)
	}
}

func TestServiceCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-16")); !errors.Is(err, posts.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestServiceCreateValidatesAgainstSchema(t *testing.T) {
	svc := newMemoryService()
	input := sampleInput("Hello", "2024-01-15")
	input.Author = ""

	_, err := svc.Create(context.Background(), alice, input)
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	issues := validation.SchemaIssues(err)
	if len(issues) != 1 || issues[0].Location != "/author" {
		t.Fatalf("unexpected issues %#v", issues)
	}
}

func TestServiceCreateDefaultsDateAndTags(t *testing.T) {
	svc := newMemoryService()
	input := sampleInput("Undated", "")
	input.Tags = nil

	created, err := svc.Create(context.Background(), alice, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Date != "2024-05-01" {
		t.Fatalf("expected today's date, got %q", created.Date)
	}
	if created.Tags == nil || len(created.Tags) != 0 {
		t.Fatalf("expected empty tag list, got %#v", created.Tags)
	}
}

func TestServiceUpdateKeepsCountersAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	clock := fixedNow()
	store := posts.NewMemoryStore()
	svc := posts.NewService(store, store, posts.WithClock(func() time.Time { return clock }))

	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Like(ctx, bob, "hello"); err != nil {
		t.Fatalf("like: %v", err)
	}

	clock = clock.Add(time.Hour)
	input := sampleInput("Hello again", "2024-01-20")
	input.LikeCount = 0
	updated, err := svc.Update(ctx, alice, "hello", input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Hello again" || updated.Date != "2024-01-20" {
		t.Fatalf("fields not replaced: %#v", updated)
	}
	if updated.LikeCount != 1 {
		t.Fatalf("expected like count to survive update, got %d", updated.LikeCount)
	}
	if updated.CreatedAt != "2024-05-01T09:30:00Z" || updated.UpdatedAt != "2024-05-01T10:30:00Z" {
		t.Fatalf("unexpected timestamps %q %q", updated.CreatedAt, updated.UpdatedAt)
	}
}

func TestServiceUpdateMissingPost(t *testing.T) {
	svc := newMemoryService()
	_, err := svc.Update(context.Background(), alice, "ghost", sampleInput("Ghost", "2024-01-15"))
	if !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, alice, "hello"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "hello"); !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, alice, "hello"); !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestServiceListPagesByDate(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	for i := 1; i <= 8; i++ {
		input := sampleInput(fmt.Sprintf("Post %d", i), fmt.Sprintf("2024-01-%02d", i))
		if _, err := svc.Create(ctx, alice, input); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	first, err := svc.List(ctx, posts.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Posts) != posts.DefaultPerPage || !first.HasMore {
		t.Fatalf("expected full first page with more, got %d posts hasMore=%v", len(first.Posts), first.HasMore)
	}
	if first.Posts[0].Slug != "post-8" || first.Cursor != "post-3" {
		t.Fatalf("unexpected ordering: first=%q cursor=%q", first.Posts[0].Slug, first.Cursor)
	}

	second, err := svc.List(ctx, posts.ListOptions{After: first.Cursor})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	var slugs []string
	for _, p := range second.Posts {
		slugs = append(slugs, p.Slug)
	}
	if diff := cmp.Diff([]string{"post-2", "post-1"}, slugs); diff != "" {
		t.Fatalf("second page mismatch (-want +got):\n%s", diff)
	}
	if second.HasMore {
		t.Fatal("expected last page")
	}

	byPage, err := svc.List(ctx, posts.ListOptions{Page: 2, PerPage: 3})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(byPage.Posts) != 3 || byPage.Posts[0].Slug != "post-5" || !byPage.HasMore {
		t.Fatalf("unexpected page 2: %#v", byPage)
	}
}

func TestServiceListPublishedOnly(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	draft := sampleInput("Draft", "2024-02-01")
	live := sampleInput("Live", "2024-01-01")
	live.Published = true
	for _, in := range []interfaces.PostInput{draft, live} {
		if _, err := svc.Create(ctx, alice, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.List(ctx, posts.ListOptions{PublishedOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].Slug != "live" {
		t.Fatalf("expected only the published post, got %#v", page.Posts)
	}
}

func TestServiceLikes(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if added, err := svc.Like(ctx, bob, "hello"); err != nil || !added {
		t.Fatalf("first like: added=%v err=%v", added, err)
	}
	if added, err := svc.Like(ctx, bob, "hello"); err != nil || added {
		t.Fatalf("second like should be a no-op: added=%v err=%v", added, err)
	}
	if _, err := svc.Like(ctx, alice, "hello"); err != nil {
		t.Fatalf("alice like: %v", err)
	}

	post, _ := svc.Get(ctx, "hello")
	if post.LikeCount != 2 {
		t.Fatalf("expected 2 likes, got %d", post.LikeCount)
	}
	if liked, _ := svc.HasLiked(ctx, bob, "hello"); !liked {
		t.Fatal("expected bob to have liked the post")
	}
	if liked, err := svc.HasLiked(ctx, nil, "hello"); err != nil || liked {
		t.Fatalf("anonymous sessions never like: liked=%v err=%v", liked, err)
	}

	if removed, err := svc.Unlike(ctx, bob, "hello"); err != nil || !removed {
		t.Fatalf("unlike: removed=%v err=%v", removed, err)
	}
	if removed, err := svc.Unlike(ctx, bob, "hello"); err != nil || removed {
		t.Fatalf("second unlike should be a no-op: removed=%v err=%v", removed, err)
	}
	post, _ = svc.Get(ctx, "hello")
	if post.LikeCount != 1 {
		t.Fatalf("expected 1 like, got %d", post.LikeCount)
	}

	if _, err := svc.Like(ctx, nil, "hello"); !errors.Is(err, posts.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestServiceLikesDisabled(t *testing.T) {
	svc := newMemoryService(posts.WithLikesEnabled(false))
	if _, err := svc.Like(context.Background(), bob, "hello"); !errors.Is(err, posts.ErrLikesDisabled) {
		t.Fatalf("expected ErrLikesDisabled, got %v", err)
	}
}

func TestServiceAdjustCommentCount(t *testing.T) {
	svc := newMemoryService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, sampleInput("Hello", "2024-01-15")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AdjustCommentCount(ctx, "hello", 2); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := svc.AdjustCommentCount(ctx, "hello", -1); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	post, _ := svc.Get(ctx, "hello")
	if post.CommentCount != 1 {
		t.Fatalf("expected 1 comment, got %d", post.CommentCount)
	}
	if err := svc.AdjustCommentCount(ctx, "ghost", 1); !errors.Is(err, posts.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
