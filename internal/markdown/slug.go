package markdown

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugNonWord    = regexp.MustCompile(`[^\w-]`)
	slugDashes     = regexp.MustCompile(`-+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug turns a title into a URL-safe slug: lowercase, whitespace
// runs become "-", non-word characters are dropped, dash runs collapse and
// leading/trailing dashes are trimmed. Titles that reduce to nothing (for
// example non-Latin scripts) fall back to transliteration via go-slug.
func GenerateSlug(title string) string {
	out := strings.ToLower(title)
	out = slugWhitespace.ReplaceAllString(out, "-")
	out = slugNonWord.ReplaceAllString(out, "")
	out = slugDashes.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if out != "" || strings.TrimSpace(title) == "" {
		return out
	}
	if normalized, err := slug.Normalize(title); err == nil {
		return normalized
	}
	return ""
}

// IsValidSlug reports whether value only holds lowercase letters, digits
// and hyphens.
func IsValidSlug(value string) bool {
	return slugPattern.MatchString(value)
}
