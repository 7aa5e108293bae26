package migrate

import (
	"context"
	"iter"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Collaborators are the store capabilities the engine may call. Each one is
// optional: without FindExisting every post is treated as new, without
// Update existing posts are skipped, without Create new posts are skipped.
type Collaborators struct {
	// FindExisting returns the stored post for id, or nil when there is none.
	FindExisting func(ctx context.Context, id string) (*interfaces.Post, error)
	// Create stores record and returns its id.
	Create func(ctx context.Context, record interfaces.PostInput) (string, error)
	Update func(ctx context.Context, id string, record interfaces.PostInput) error
}

// Defaults fill in front matter keys a post leaves out.
type Defaults struct {
	Author    string
	ImageURL  string
	ImageHint string
}

// DefaultDefaults returns the placeholders used when nothing is configured.
func DefaultDefaults() Defaults {
	return Defaults{
		Author:    "Unknown Author",
		ImageURL:  "/images/default-blog-image.jpg",
		ImageHint: "Blog post image",
	}
}

// Options control a single run.
type Options struct {
	// DryRun builds every candidate and reports it as created without
	// calling any collaborator.
	DryRun bool
	// OnResult, when set, is called after each entry is decided.
	OnResult func(FileResult)
}

// Engine decides create/update/skip for every parsed post.
type Engine struct {
	logger   interfaces.Logger
	now      func() time.Time
	defaults Defaults
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the clock used for the default post date.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDefaults overrides the placeholder values. Empty fields keep the
// built-in placeholder.
func WithDefaults(d Defaults) EngineOption {
	return func(e *Engine) {
		if d.Author != "" {
			e.defaults.Author = d.Author
		}
		if d.ImageURL != "" {
			e.defaults.ImageURL = d.ImageURL
		}
		if d.ImageHint != "" {
			e.defaults.ImageHint = d.ImageHint
		}
	}
}

// NewEngine constructs an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   logging.NoOp(),
		now:      time.Now,
		defaults: DefaultDefaults(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Migrate walks entries in order, one at a time. A failure on one entry is
// recorded as OutcomeError and the run moves on. The context is checked
// between entries only; on cancellation the remaining entries are left
// untouched and the report is marked Interrupted.
func (e *Engine) Migrate(ctx context.Context, entries iter.Seq[markdown.Entry], collab Collaborators, opts Options) Report {
	report := Report{DryRun: opts.DryRun}
	if entries == nil {
		return report
	}
	logger := e.logger.WithContext(ctx)
	logger.Debug("migrate.run.started", "dry_run", opts.DryRun)

	for entry := range entries {
		if ctx.Err() != nil {
			report.Interrupted = true
			logger.Warn("migrate.run.interrupted", "processed", report.Total(), "error", ctx.Err())
			break
		}

		res := e.migrateEntry(ctx, entry, collab, opts.DryRun)
		report.add(res)

		fileLogger := logging.WithFileContext(logger, res.File, string(res.Outcome))
		if res.Err != nil {
			// failures reach the user through OnResult
			fileLogger.Debug("migrate.file.failed", "error", Describe(res.Err))
		} else {
			fileLogger.Debug("migrate.file.done", "id", res.ID)
		}
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	logger.Info("migrate.run.completed",
		"dry_run", report.DryRun,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", report.Errors,
		"interrupted", report.Interrupted,
	)
	return report
}

func (e *Engine) migrateEntry(ctx context.Context, entry markdown.Entry, collab Collaborators, dryRun bool) FileResult {
	res := FileResult{File: entry.Filename}
	if entry.Err != nil {
		res.Outcome, res.Err = OutcomeError, entry.Err
		return res
	}
	doc := entry.Document
	if doc == nil {
		res.Outcome, res.Err = OutcomeError, markdown.MissingRequiredField(entry.Filename, "title")
		return res
	}
	res.ID = doc.ID
	if doc.FrontMatter.Title == "" {
		res.Outcome, res.Err = OutcomeError, markdown.MissingRequiredField(entry.Filename, "title")
		return res
	}

	record := e.BuildRecord(doc)
	res.Record = &record

	if dryRun {
		res.Outcome = OutcomeCreated
		return res
	}

	if collab.FindExisting != nil {
		existing, err := collab.FindExisting(ctx, doc.ID)
		if err != nil {
			res.Outcome, res.Err = OutcomeError, collaboratorFailure("find existing", entry.Filename, err)
			return res
		}
		if existing != nil {
			if collab.Update == nil {
				res.Outcome = OutcomeSkipped
				return res
			}
			if err := collab.Update(ctx, doc.ID, record); err != nil {
				res.Outcome, res.Err = OutcomeError, collaboratorFailure("update", entry.Filename, err)
				return res
			}
			res.Outcome = OutcomeUpdated
			return res
		}
	}

	if collab.Create == nil {
		res.Outcome = OutcomeSkipped
		return res
	}
	id, err := collab.Create(ctx, record)
	if err != nil {
		res.Outcome, res.Err = OutcomeError, collaboratorFailure("create", entry.Filename, err)
		return res
	}
	if id != "" {
		res.ID = id
	}
	res.Outcome = OutcomeCreated
	return res
}

// BuildRecord turns a parsed document into the candidate post, filling in
// defaults for absent keys. Counters always start at zero.
func (e *Engine) BuildRecord(doc *markdown.Document) interfaces.PostInput {
	fm := doc.FrontMatter
	record := interfaces.PostInput{
		Slug:      doc.ID,
		Title:     fm.Title,
		Content:   doc.Body,
		Excerpt:   fm.Excerpt,
		Author:    fm.Author,
		Date:      fm.Date,
		ImageURL:  fm.ImageURL,
		ImageHint: fm.ImageHint,
		Published: fm.Published,
		Tags:      append([]string{}, fm.Tags...),
	}
	if record.Author == "" {
		record.Author = e.defaults.Author
	}
	if record.Date == "" {
		record.Date = markdown.Today(e.now)
	}
	if record.ImageURL == "" {
		record.ImageURL = e.defaults.ImageURL
	}
	if record.ImageHint == "" {
		record.ImageHint = e.defaults.ImageHint
	}
	return record
}
