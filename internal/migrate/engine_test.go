package migrate_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

func validPost(title string) string {
	return "---\ntitle: " + title + "\nexcerpt: intro\nauthor: Jane\ndate: 2024-01-15\npublished: true\ntags: [go]\n---\n" +
		strings.Repeat("Body text. ", 12) + "\n"
}

func entryFor(name, source string) markdown.Entry {
	doc, err := markdown.ParseDocument(name, []byte(source))
	return markdown.Entry{Filename: name, Document: doc, Err: err}
}

// memoryStore records collaborator calls against a map keyed by post id.
type memoryStore struct {
	posts   map[string]interfaces.PostInput
	finds   int
	creates int
	updates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{posts: map[string]interfaces.PostInput{}}
}

func (m *memoryStore) calls() int { return m.finds + m.creates + m.updates }

func (m *memoryStore) collaborators() migrate.Collaborators {
	return migrate.Collaborators{
		FindExisting: m.find,
		Create:       m.create,
		Update:       m.update,
	}
}

func (m *memoryStore) find(_ context.Context, id string) (*interfaces.Post, error) {
	m.finds++
	rec, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return &interfaces.Post{ID: id, PostInput: rec}, nil
}

func (m *memoryStore) create(_ context.Context, rec interfaces.PostInput) (string, error) {
	m.creates++
	if _, exists := m.posts[rec.Slug]; exists {
		return "", errors.New("duplicate create for " + rec.Slug)
	}
	m.posts[rec.Slug] = rec
	return rec.Slug, nil
}

func (m *memoryStore) update(_ context.Context, id string, rec interfaces.PostInput) error {
	m.updates++
	m.posts[id] = rec
	return nil
}

func counts(r migrate.Report) [4]int {
	return [4]int{r.Created, r.Updated, r.Skipped, r.Errors}
}

func TestMigrateDryRunCallsNoCollaborator(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.md", "beta.md", "gamma.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(validPost(name)), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	seq, err := markdown.NewLoader(markdown.LoaderConfig{}).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	store := newMemoryStore()
	report := migrate.NewEngine().Migrate(context.Background(), seq, store.collaborators(), migrate.Options{DryRun: true})

	if store.calls() != 0 {
		t.Fatalf("expected no collaborator calls, got %d", store.calls())
	}
	if got := counts(report); got != [4]int{3, 0, 0, 0} {
		t.Fatalf("unexpected counts %v", got)
	}
	if len(report.Preview) != 3 || report.Preview[0].File != "alpha.md" {
		t.Fatalf("unexpected preview %#v", report.Preview)
	}
	if !report.DryRun {
		t.Fatal("expected report to be marked as dry run")
	}
}

func TestMigrateMissingTitleIsAnErrorWithoutCalls(t *testing.T) {
	store := newMemoryStore()
	entries := slices.Values([]markdown.Entry{
		entryFor("untitled.md", "---\nauthor: Jane\n---\nbody\n"),
	})

	report := migrate.NewEngine().Migrate(context.Background(), entries, store.collaborators(), migrate.Options{})

	if got := counts(report); got != [4]int{0, 0, 0, 1} {
		t.Fatalf("unexpected counts %v", got)
	}
	if store.calls() != 0 {
		t.Fatalf("expected no collaborator calls, got %d", store.calls())
	}
	failures := report.Failures()
	if len(failures) != 1 || failures[0].File != "untitled.md" {
		t.Fatalf("unexpected failures %#v", failures)
	}
	if !markdown.IsMissingRequiredField(failures[0].Err) {
		t.Fatalf("expected MISSING_REQUIRED_FIELD, got %v", failures[0].Err)
	}
	if !goerrors.IsCategory(failures[0].Err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", failures[0].Err)
	}
}

func TestMigrateTwiceCreatesThenUpdates(t *testing.T) {
	store := newMemoryStore()
	entries := []markdown.Entry{
		entryFor("first.md", validPost("First")),
		entryFor("second.md", validPost("Second")),
	}
	engine := migrate.NewEngine()

	run1 := engine.Migrate(context.Background(), slices.Values(entries), store.collaborators(), migrate.Options{})
	run2 := engine.Migrate(context.Background(), slices.Values(entries), store.collaborators(), migrate.Options{})

	if got := counts(run1); got != [4]int{2, 0, 0, 0} {
		t.Fatalf("run 1 counts %v", got)
	}
	if got := counts(run2); got != [4]int{0, 2, 0, 0} {
		t.Fatalf("run 2 counts %v", got)
	}
	if store.creates != 2 {
		t.Fatalf("expected exactly 2 creates, got %d", store.creates)
	}
}

func TestMigrateSameIDTwiceInOneRunCreatesOnce(t *testing.T) {
	store := newMemoryStore()
	entries := slices.Values([]markdown.Entry{
		entryFor("dup.md", validPost("Dup")),
		entryFor("dup.md", validPost("Dup again")),
	})

	report := migrate.NewEngine().Migrate(context.Background(), entries, store.collaborators(), migrate.Options{})

	if got := counts(report); got != [4]int{1, 1, 0, 0} {
		t.Fatalf("unexpected counts %v", got)
	}
	if store.posts["dup"].Title != "Dup again" {
		t.Fatalf("expected second entry to update, got %q", store.posts["dup"].Title)
	}
}

func TestMigrateCreateOnlyScenario(t *testing.T) {
	store := newMemoryStore()
	entries := slices.Values([]markdown.Entry{
		entryFor("a.md", validPost("A")),
		entryFor("b.md", "---\nexcerpt: no title\n---\n"+strings.Repeat("x", 120)),
	})

	report := migrate.NewEngine().Migrate(context.Background(), entries,
		migrate.Collaborators{Create: store.create}, migrate.Options{})

	if got := counts(report); got != [4]int{1, 0, 0, 1} {
		t.Fatalf("unexpected counts %v", got)
	}
	if store.creates != 1 {
		t.Fatalf("expected one create, got %d", store.creates)
	}
}

func TestMigrateMissingCapabilitiesSkip(t *testing.T) {
	store := newMemoryStore()
	store.posts["old"] = interfaces.PostInput{Title: "Old"}
	entries := []markdown.Entry{
		entryFor("old.md", validPost("Old")),
		entryFor("new.md", validPost("New")),
	}

	findOnly := migrate.Collaborators{FindExisting: store.find}
	report := migrate.NewEngine().Migrate(context.Background(), slices.Values(entries), findOnly, migrate.Options{})

	if got := counts(report); got != [4]int{0, 0, 2, 0} {
		t.Fatalf("unexpected counts %v", got)
	}
	outcomes := []migrate.Outcome{report.Results[0].Outcome, report.Results[1].Outcome}
	if diff := cmp.Diff([]migrate.Outcome{migrate.OutcomeSkipped, migrate.OutcomeSkipped}, outcomes); diff != "" {
		t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
	}
	if store.creates+store.updates != 0 {
		t.Fatal("expected no writes without create/update capabilities")
	}

	none := migrate.NewEngine().Migrate(context.Background(), slices.Values(entries), migrate.Collaborators{}, migrate.Options{})
	if got := counts(none); got != [4]int{0, 0, 2, 0} {
		t.Fatalf("expected everything skipped without collaborators, got %v", got)
	}
}

func TestMigrateCollaboratorFailureIsIsolated(t *testing.T) {
	store := newMemoryStore()
	failing := migrate.Collaborators{
		FindExisting: store.find,
		Create: func(ctx context.Context, rec interfaces.PostInput) (string, error) {
			if rec.Slug == "boom" {
				return "", errors.New("store offline")
			}
			return store.create(ctx, rec)
		},
	}
	entries := slices.Values([]markdown.Entry{
		entryFor("boom.md", validPost("Boom")),
		entryFor("fine.md", validPost("Fine")),
	})

	var seen []string
	report := migrate.NewEngine().Migrate(context.Background(), entries, failing, migrate.Options{
		OnResult: func(res migrate.FileResult) { seen = append(seen, res.File+":"+string(res.Outcome)) },
	})

	if got := counts(report); got != [4]int{1, 0, 0, 1} {
		t.Fatalf("unexpected counts %v", got)
	}
	if diff := cmp.Diff([]string{"boom.md:error", "fine.md:created"}, seen); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	err := report.Failures()[0].Err
	if !migrate.IsCollaboratorFailure(err) || !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external COLLABORATOR_FAILURE, got %v", err)
	}
	if got := migrate.Describe(err); got != "create failed: store offline" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestMigrateLoaderErrorsCountAsErrors(t *testing.T) {
	store := newMemoryStore()
	entries := slices.Values([]markdown.Entry{
		entryFor("broken.md", "---\ntitle: \"oops\n---\nbody"),
		entryFor("ok.md", validPost("OK")),
	})

	report := migrate.NewEngine().Migrate(context.Background(), entries, store.collaborators(), migrate.Options{})

	if got := counts(report); got != [4]int{1, 0, 0, 1} {
		t.Fatalf("unexpected counts %v", got)
	}
	if !markdown.IsMalformedFrontmatter(report.Failures()[0].Err) {
		t.Fatalf("expected malformed front matter failure, got %v", report.Failures()[0].Err)
	}
}

func TestMigrateStopsBetweenFilesOnCancel(t *testing.T) {
	store := newMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := slices.Values([]markdown.Entry{
		entryFor("one.md", validPost("One")),
		entryFor("two.md", validPost("Two")),
		entryFor("three.md", validPost("Three")),
	})
	report := migrate.NewEngine().Migrate(ctx, entries, store.collaborators(), migrate.Options{
		OnResult: func(migrate.FileResult) { cancel() },
	})

	if !report.Interrupted {
		t.Fatal("expected report to be interrupted")
	}
	if report.Total() != 1 || report.Created != 1 {
		t.Fatalf("expected only the first file processed, got %v", counts(report))
	}
	if _, ok := store.posts["two"]; ok {
		t.Fatal("expected remaining files to be untouched")
	}
}

func TestBuildRecordAppliesDefaults(t *testing.T) {
	doc, err := markdown.ParseDocument("bare.md", []byte("---\ntitle: Bare\n---\nJust content\n"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	got := migrate.NewEngine(migrate.WithClock(fixedNow)).BuildRecord(doc)
	want := interfaces.PostInput{
		Slug:      "bare",
		Title:     "Bare",
		Content:   doc.Body,
		Author:    "Unknown Author",
		Date:      "2024-05-01",
		ImageURL:  "/images/default-blog-image.jpg",
		ImageHint: "Blog post image",
		Tags:      []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	custom := migrate.NewEngine(migrate.WithDefaults(migrate.Defaults{Author: "Editorial Team"})).BuildRecord(doc)
	if custom.Author != "Editorial Team" || custom.ImageHint != "Blog post image" {
		t.Fatalf("unexpected configured defaults %#v", custom)
	}
}

func TestMigrateTreatsIDsThatDifferInCaseAsDistinct(t *testing.T) {
	store := newMemoryStore()
	entries := slices.Values([]markdown.Entry{
		entryFor("Hello-World.md", validPost("Upper")),
		entryFor("hello-world.md", validPost("Lower")),
	})

	report := migrate.NewEngine().Migrate(context.Background(), entries, store.collaborators(), migrate.Options{})

	if got := counts(report); got != [4]int{2, 0, 0, 0} {
		t.Fatalf("unexpected counts %v", got)
	}
	if store.posts["Hello-World"].Title != "Upper" || store.posts["hello-world"].Title != "Lower" {
		t.Fatalf("expected both posts kept, got %v", store.posts)
	}
}

func TestMigrateFileFailuresStayBelowInfo(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, OmitTime: true})
	engine := migrate.NewEngine(migrate.WithLogger(provider.GetLogger("blog.migrate")))

	entries := slices.Values([]markdown.Entry{
		entryFor("untitled.md", "---\nexcerpt: none\n---\n"+strings.Repeat("x", 120)),
	})
	report := engine.Migrate(context.Background(), entries, newMemoryStore().collaborators(), migrate.Options{})

	if report.Errors != 1 {
		t.Fatalf("expected one error, got %+v", report)
	}
	if strings.Contains(buf.String(), "migrate.file.failed") || strings.Contains(buf.String(), "untitled.md") {
		t.Fatalf("expected per-file failure to stay out of info output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "migrate.run.completed") {
		t.Fatalf("expected run summary in log:\n%s", buf.String())
	}
}
