package authoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/natefinch/atomic"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	ErrPostExists   = errors.New("authoring: post already exists")
	ErrInvalidDraft = errors.New("authoring: invalid draft")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Config wires a Manager.
type Config struct {
	ContentDir string
	// TemplatePath defaults to blog-template.md in the working directory.
	TemplatePath string
	Logger       interfaces.Logger
	Clock        func() time.Time
}

// Manager creates and lists the Markdown posts of a content directory.
type Manager struct {
	contentDir   string
	templatePath string
	logger       interfaces.Logger
	now          func() time.Time
}

// NewManager builds a Manager. It touches nothing on disk until
// EnsureDirectories or Create runs.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		contentDir:   strings.TrimSpace(cfg.ContentDir),
		templatePath: strings.TrimSpace(cfg.TemplatePath),
		logger:       cfg.Logger,
		now:          cfg.Clock,
	}
	if m.templatePath == "" {
		m.templatePath = "blog-template.md"
	}
	if m.logger == nil {
		m.logger = logging.NoOp()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// ContentDir is the directory posts are written to.
func (m *Manager) ContentDir() string { return m.contentDir }

// TemplatePath is the template new posts are built from.
func (m *Manager) TemplatePath() string { return m.templatePath }

// Setup reports what EnsureDirectories had to create.
type Setup struct {
	CreatedContentDir bool
	CreatedTemplate   bool
}

// EnsureDirectories creates the content directory and the starter template
// when they are missing.
func (m *Manager) EnsureDirectories(ctx context.Context) (Setup, error) {
	var setup Setup
	if err := ctx.Err(); err != nil {
		return setup, err
	}

	if _, err := os.Stat(m.contentDir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(m.contentDir, 0o755); err != nil {
			return setup, fmt.Errorf("authoring: create content dir: %w", err)
		}
		setup.CreatedContentDir = true
		m.logger.Info("authoring.content_dir.created", "dir", m.contentDir)
	} else if err != nil {
		return setup, fmt.Errorf("authoring: stat content dir: %w", err)
	}

	if _, err := os.Stat(m.templatePath); errors.Is(err, fs.ErrNotExist) {
		data, err := DefaultTemplate(markdown.Today(m.now))
		if err != nil {
			return setup, err
		}
		if dir := filepath.Dir(m.templatePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return setup, fmt.Errorf("authoring: create template dir: %w", err)
			}
		}
		if err := atomic.WriteFile(m.templatePath, bytes.NewReader(data)); err != nil {
			return setup, fmt.Errorf("authoring: write template: %w", err)
		}
		setup.CreatedTemplate = true
		m.logger.Info("authoring.template.created", "path", m.templatePath)
	} else if err != nil {
		return setup, fmt.Errorf("authoring: stat template: %w", err)
	}
	return setup, nil
}

// Draft is what the creation wizard collects.
type Draft struct {
	Title     string
	Slug      string
	Excerpt   string
	Author    string
	ImageURL  string
	ImageHint string
	Tags      []string
}

// Validate checks the fields the wizard insists on.
func (d Draft) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.By(stringRule(ValidateTitle))),
		validation.Field(&d.Slug, validation.By(stringRule(ValidateSlug))),
		validation.Field(&d.Excerpt, validation.By(stringRule(ValidateExcerpt))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// ValidateTitle rejects blank titles.
func ValidateTitle(value string) error {
	return validation.Validate(strings.TrimSpace(value), validation.Required.Error("Title is required"))
}

// ValidateSlug enforces the lowercase letters, digits and hyphens alphabet.
func ValidateSlug(value string) error {
	return validation.Validate(value,
		validation.Required.Error("Slug is required"),
		validation.Match(slugPattern).Error("Slug must contain only lowercase letters, numbers, and hyphens"),
	)
}

// ValidateExcerpt rejects blank excerpts.
func ValidateExcerpt(value string) error {
	return validation.Validate(strings.TrimSpace(value), validation.Required.Error("Excerpt is required"))
}

func stringRule(check func(string) error) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		return check(s)
	}
}

// ParseTags splits a comma-separated answer, dropping blanks.
func ParseTags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PostPath is where a post with slug lives.
func (m *Manager) PostPath(slug string) string {
	return filepath.Join(m.contentDir, slug+".md")
}

// Exists reports whether a post file for slug is already present.
func (m *Manager) Exists(slug string) bool {
	_, err := os.Stat(m.PostPath(slug))
	return err == nil
}

// Create writes a new unpublished post built from draft on top of the
// template body. An existing file is kept unless overwrite is set.
func (m *Manager) Create(ctx context.Context, draft Draft, overwrite bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}
	if _, err := m.EnsureDirectories(ctx); err != nil {
		return "", err
	}

	path := m.PostPath(draft.Slug)
	if !overwrite && m.Exists(draft.Slug) {
		return path, fmt.Errorf("%w: %s", ErrPostExists, filepath.Base(path))
	}

	source, err := os.ReadFile(m.templatePath)
	if err != nil {
		return "", fmt.Errorf("authoring: read template: %w", err)
	}
	body, err := templateContent(source)
	if err != nil {
		return "", err
	}

	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	data, err := Render(frontMatter{
		Title:     strings.TrimSpace(draft.Title),
		Excerpt:   strings.TrimSpace(draft.Excerpt),
		Author:    draft.Author,
		Date:      markdown.Today(m.now),
		ImageURL:  draft.ImageURL,
		ImageHint: draft.ImageHint,
		Tags:      tags,
	}, body)
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("authoring: write post: %w", err)
	}
	m.logger.Info("authoring.post.created", "path", path, "overwrite", overwrite)
	return path, nil
}

// Summary is one line of the post listing.
type Summary struct {
	File      string
	Title     string
	Author    string
	Date      string
	Published bool
	Tags      []string
	// ReadingTime is the estimated reading time of the body in minutes.
	ReadingTime int
	Words       int
	// Err is set when the file could not be parsed; the other fields then
	// carry their fallbacks.
	Err error
}

// List summarises every post in the content directory in file name order.
// A missing directory is reported with markdown.IsDirectoryNotFound.
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	entries, err := markdown.NewLoader(markdown.LoaderConfig{Logger: m.logger}).Load(ctx, m.contentDir)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	for entry := range entries {
		summary := Summary{
			File:   entry.Filename,
			Title:  "Untitled",
			Author: "Unknown",
			Date:   "Unknown",
			Tags:   []string{},
			Err:    entry.Err,
		}
		if doc := entry.Document; doc != nil {
			fm := doc.FrontMatter
			summary.Title = fallback(fm.Title, summary.Title)
			summary.Author = fallback(fm.Author, summary.Author)
			summary.Date = fallback(fm.Date, summary.Date)
			summary.Published = fm.Published
			summary.Tags = append(summary.Tags, fm.Tags...)
			summary.ReadingTime = markdown.ReadingTime(doc.Body, markdown.DefaultWordsPerMinute)
			summary.Words = markdown.WordCount(doc.Body)
		}
		out = append(out, summary)
	}
	return out, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
