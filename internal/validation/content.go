package validation

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// MinContentLength is the shortest trimmed body, in characters, a post may have.
const MinContentLength = 100

const (
	msgMissingTitle       = "Missing title"
	msgMissingExcerpt     = "Missing excerpt"
	msgMissingAuthor      = "Missing author"
	msgMissingDate        = "Missing date"
	msgInvalidSlug        = "Invalid slug format (use lowercase letters, numbers, and hyphens only)"
	msgInvalidFrontmatter = "Invalid frontmatter format"
	msgUnreadable         = "Unreadable file"
)

// Issue is one problem found in one file.
type Issue struct {
	File    string
	Message string
}

func (i Issue) String() string {
	return i.File + ": " + i.Message
}

// Report lists every issue, grouped by file in input order and by check
// within a file. An empty report means every post passed.
type Report struct {
	Files  int
	Issues []Issue
}

// Valid reports whether no issue was found.
func (r Report) Valid() bool {
	return len(r.Issues) == 0
}

// ForFile returns the messages recorded for file.
func (r Report) ForFile(file string) []string {
	var out []string
	for _, issue := range r.Issues {
		if issue.File == file {
			out = append(out, issue.Message)
		}
	}
	return out
}

// Validator runs the content checks over loaded posts.
type Validator struct {
	logger interfaces.Logger
}

// NewValidator returns a Validator logging through logger (no-op when nil).
func NewValidator(logger interfaces.Logger) *Validator {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Validator{logger: logger}
}

// Validate checks every entry with a default Validator.
func Validate(entries iter.Seq[markdown.Entry]) Report {
	return NewValidator(nil).Validate(entries)
}

// Validate checks every entry. Per file it reports missing title, excerpt,
// author and date, a body shorter than MinContentLength once trimmed, and an
// id that is not a valid slug. A file whose front matter cannot be parsed
// gets a single "Invalid frontmatter format" issue.
func (v *Validator) Validate(entries iter.Seq[markdown.Entry]) Report {
	var report Report
	if entries == nil {
		return report
	}
	for entry := range entries {
		report.Files++
		messages := checkEntry(entry)
		for _, msg := range messages {
			report.Issues = append(report.Issues, Issue{File: entry.Filename, Message: msg})
		}
		if len(messages) > 0 {
			logging.WithFileContext(v.logger, entry.Filename, "validate").
				Debug("validation.file.issues", "count", len(messages))
		}
	}
	v.logger.Info("validation.run.completed", "files", report.Files, "issues", len(report.Issues))
	return report
}

func checkEntry(entry markdown.Entry) []string {
	switch {
	case entry.Err != nil && markdown.IsMalformedFrontmatter(entry.Err):
		return []string{msgInvalidFrontmatter}
	case entry.Err != nil:
		return []string{fmt.Sprintf("%s (%v)", msgUnreadable, entry.Err)}
	case entry.Document == nil:
		return []string{msgInvalidFrontmatter}
	}

	doc := entry.Document
	fm := doc.FrontMatter
	checks := []struct {
		value any
		rules []validation.Rule
	}{
		{fm.Title, []validation.Rule{validation.Required.Error(msgMissingTitle)}},
		{fm.Excerpt, []validation.Rule{validation.Required.Error(msgMissingExcerpt)}},
		{fm.Author, []validation.Rule{validation.Required.Error(msgMissingAuthor)}},
		{fm.Date, []validation.Rule{validation.Required.Error(msgMissingDate)}},
		{doc.Body, []validation.Rule{validation.By(contentLength)}},
		{doc.ID, []validation.Rule{
			validation.Required.Error(msgInvalidSlug),
			validation.By(slugFormat),
		}},
	}

	var messages []string
	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			messages = append(messages, err.Error())
		}
	}
	return messages
}

func contentLength(value any) error {
	body, _ := value.(string)
	n := utf8.RuneCountInString(strings.TrimSpace(body))
	if n < MinContentLength {
		return validation.NewError("validation_content_too_short", fmt.Sprintf("Content too short (%d chars)", n))
	}
	return nil
}

func slugFormat(value any) error {
	id, _ := value.(string)
	if !markdown.IsValidSlug(id) {
		return validation.NewError("validation_invalid_slug", msgInvalidSlug)
	}
	return nil
}
