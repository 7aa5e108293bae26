package markdown

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeDirectoryNotFound    = "DIRECTORY_NOT_FOUND"
	TextCodeMalformedFrontmatter = "MALFORMED_FRONTMATTER"
	TextCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
)

// ErrDirectoryNotFound is returned by Loader.Load when the content directory
// does not exist. Callers treat it as an empty result, distinct from a
// directory that holds no Markdown files.
var ErrDirectoryNotFound = goerrors.New("content directory not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeDirectoryNotFound)

func directoryNotFound(dir string, source error) error {
	return goerrors.Wrap(source, goerrors.CategoryNotFound, "content directory not found").
		WithTextCode(TextCodeDirectoryNotFound).
		WithMetadata(map[string]any{"dir": dir})
}

// MalformedFrontmatter reports a front matter block that could not be decoded.
func MalformedFrontmatter(file string, source error) error {
	return goerrors.Wrap(source, goerrors.CategoryBadInput, "invalid frontmatter format").
		WithTextCode(TextCodeMalformedFrontmatter).
		WithMetadata(map[string]any{"file": file})
}

// MissingRequiredField reports a front matter key a workflow cannot do without.
func MissingRequiredField(file, field string) error {
	return goerrors.New("missing required field: "+field, goerrors.CategoryValidation).
		WithTextCode(TextCodeMissingRequiredField).
		WithMetadata(map[string]any{"file": file, "field": field})
}

// IsDirectoryNotFound reports whether err is a missing content directory.
func IsDirectoryNotFound(err error) bool {
	return hasTextCode(err, TextCodeDirectoryNotFound)
}

// IsMalformedFrontmatter reports whether err came from a broken front matter block.
func IsMalformedFrontmatter(err error) bool {
	return hasTextCode(err, TextCodeMalformedFrontmatter)
}

// IsMissingRequiredField reports whether err flags an absent required key.
func IsMissingRequiredField(err error) bool {
	return hasTextCode(err, TextCodeMissingRequiredField)
}

func hasTextCode(err error, code string) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}
