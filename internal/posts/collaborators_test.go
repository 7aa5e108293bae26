package posts_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/posts"
)

func writePost(t *testing.T, dir, name, title string) {
	t.Helper()
	source := "---\ntitle: " + title + "\nexcerpt: intro\nauthor: Jane\ndate: 2024-01-15\ntags: go, blog\n---\n" +
		strings.Repeat("Body text. ", 12) + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCollaboratorsCreateThenUpdate(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "first-post.md", "First")
	writePost(t, dir, "second-post.md", "Second")

	ctx := context.Background()
	svc := newMemoryService()
	collab := posts.Collaborators(svc, alice)
	loader := markdown.NewLoader(markdown.LoaderConfig{})
	engine := migrate.NewEngine(migrate.WithClock(fixedNow))

	run := func() migrate.Report {
		entries, err := loader.Load(ctx, dir)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		return engine.Migrate(ctx, entries, collab, migrate.Options{})
	}

	first := run()
	if first.Created != 2 || first.Updated != 0 || first.Errors != 0 {
		t.Fatalf("unexpected first run %+v", first)
	}
	second := run()
	if second.Created != 0 || second.Updated != 2 || second.Errors != 0 {
		t.Fatalf("unexpected second run %+v", second)
	}

	post, err := svc.Get(ctx, "first-post")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if post.Title != "First" || len(post.Tags) != 2 {
		t.Fatalf("unexpected stored post %#v", post)
	}
}

func TestCollaboratorsFindExistingMissing(t *testing.T) {
	collab := posts.Collaborators(newMemoryService(), alice)
	post, err := collab.FindExisting(context.Background(), "ghost")
	if err != nil || post != nil {
		t.Fatalf("expected nil, nil for a missing post, got %v, %v", post, err)
	}
}

func TestCollaboratorsAnonymousWritesFail(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "first-post.md", "First")

	ctx := context.Background()
	entries, err := markdown.NewLoader(markdown.LoaderConfig{}).Load(ctx, dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	report := migrate.NewEngine().Migrate(ctx, entries, posts.Collaborators(newMemoryService(), nil), migrate.Options{})
	if report.Errors != 1 || report.Created != 0 {
		t.Fatalf("expected auth failure to count as error, got %+v", report)
	}
	if !strings.Contains(migrate.Describe(report.Failures()[0].Err), "authentication required") {
		t.Fatalf("unexpected failure %v", report.Failures()[0].Err)
	}
}

func TestCollaboratorsKeepSlugsThatDifferInCase(t *testing.T) {
	backends := map[string]func(t *testing.T) posts.Service{
		"memory": func(*testing.T) posts.Service { return newMemoryService() },
		"bun": func(t *testing.T) posts.Service {
			db := newTestDB(t)
			repo := posts.NewBunPostRepository(db)
			return posts.NewService(repo, posts.NewBunLikeRepository(db, repo), posts.WithClock(fixedNow))
		},
	}
	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writePost(t, dir, "hello-world.md", "Lower")
			writePost(t, dir, "Hello-World.md", "Upper")
			if files, _ := os.ReadDir(dir); len(files) != 2 {
				t.Skip("file system folds case")
			}

			ctx := context.Background()
			svc := build(t)
			entries, err := markdown.NewLoader(markdown.LoaderConfig{}).Load(ctx, dir)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			report := migrate.NewEngine(migrate.WithClock(fixedNow)).Migrate(ctx, entries, posts.Collaborators(svc, alice), migrate.Options{})
			if report.Created != 2 || report.Errors != 0 {
				t.Fatalf("expected both posts created, got %+v", report)
			}

			for slug, title := range map[string]string{"hello-world": "Lower", "Hello-World": "Upper"} {
				post, err := svc.Get(ctx, slug)
				if err != nil {
					t.Fatalf("get %s: %v", slug, err)
				}
				if post.Title != title {
					t.Fatalf("get %s: expected title %q, got %q", slug, title, post.Title)
				}
			}
		})
	}
}
