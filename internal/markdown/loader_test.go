package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoaderMissingDirectory(t *testing.T) {
	loader := NewLoader(LoaderConfig{})
	seq, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if seq != nil {
		t.Fatal("expected nil sequence for missing directory")
	}
	if !IsDirectoryNotFound(err) {
		t.Fatalf("expected DIRECTORY_NOT_FOUND, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not_found category, got %v", err)
	}
}

func TestLoaderEmptyDirectoryIsNotAnError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "ignored"})
	seq, err := NewLoader(LoaderConfig{}).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if entries := Collect(seq); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestLoaderOrdersFilesAndIsolatesFailures(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"c-post.md":     "---\ntitle: C\n---\nc body\n",
		"a-post.md":     "---\ntitle: A\n---\na body\n",
		"b-post.md":     "---\ntitle: \"broken\n---\nb body\n",
		"readme.txt":    "not markdown",
		"drafts/old.md": "---\ntitle: Old\n---\n",
	})

	seq, err := NewLoader(LoaderConfig{}).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entries := Collect(seq)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Filename)
	}
	if diff := cmp.Diff([]string{"a-post.md", "b-post.md", "c-post.md"}, names); diff != "" {
		t.Fatalf("file order mismatch (-want +got):\n%s", diff)
	}

	if entries[0].Err != nil || entries[0].Document.FrontMatter.Title != "A" {
		t.Fatalf("unexpected first entry %#v", entries[0])
	}
	if entries[1].Document != nil || !IsMalformedFrontmatter(entries[1].Err) {
		t.Fatalf("expected malformed entry for b-post.md, got %#v", entries[1])
	}
	if entries[2].Err != nil || entries[2].Document.ID != "c-post" {
		t.Fatalf("unexpected last entry %#v", entries[2])
	}
}

func TestLoaderSequenceStopsWhenConsumerBreaks(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md": "a", "b.md": "b", "c.md": "c",
	})
	seq, err := NewLoader(LoaderConfig{}).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected to stop after 2 entries, saw %d", seen)
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(LoaderConfig{}).Load(ctx, t.TempDir()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoaderFilesListsMatchingNamesInOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.md":      "---\ntitle: B\n---\n",
		"a.md":      "---\ntitle: A\n---\n",
		"notes.txt": "skip",
		"sub/c.md":  "---\ntitle: C\n---\n",
	})
	names, err := NewLoader(LoaderConfig{}).Files(context.Background(), dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"a.md", "b.md"}, names); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewLoader(LoaderConfig{}).Files(context.Background(), filepath.Join(dir, "nope")); !IsDirectoryNotFound(err) {
		t.Fatalf("expected DIRECTORY_NOT_FOUND, got %v", err)
	}
}
