package markdown

import (
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"
)

// DateLayout is the layout of post dates in front matter.
const DateLayout = time.DateOnly

// Today returns the current date in DateLayout.
func Today(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().Format(DateLayout)
}

// FormatDate renders a post date ("2024-01-15" or RFC 3339) as
// "January 15, 2024". Unparseable input is returned unchanged.
func FormatDate(value string) string {
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return value
}

// TruncateText shortens text to at most max runes, ending with suffix
// ("..." when empty).
func TruncateText(text string, max int, suffix string) string {
	if max <= 0 {
		return ""
	}
	if suffix == "" {
		suffix = "..."
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	keep := max - utf8.RuneCountInString(suffix)
	if keep <= 0 {
		return string([]rune(suffix)[:max])
	}
	return string([]rune(text)[:keep]) + suffix
}

// FormatCount abbreviates large counters: 999, 1.2K, 3.4M.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.Itoa(n)
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail performs a loose shape check on an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
