package markdown

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-01-15":           "January 15, 2024",
		"2023-12-01T10:00:00Z": "December 1, 2023",
		"next tuesday":         "next tuesday",
	}
	for input, want := range cases {
		if got := FormatDate(input); got != want {
			t.Fatalf("FormatDate(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestToday(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC) }
	if got := Today(now); got != "2024-02-29" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("hello world", 8, ""); got != "hello..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateText("short", 10, ""); got != "short" {
		t.Fatalf("expected short text untouched, got %q", got)
	}
	if got := TruncateText("héllo wörld", 7, "…"); got != "héllo …" {
		t.Fatalf("expected rune aware truncation, got %q", got)
	}
	if got := TruncateText("anything", 0, ""); got != "" {
		t.Fatalf("expected empty result for zero max, got %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{
		0:         "0",
		999:       "999",
		1000:      "1.0K",
		1200:      "1.2K",
		3_400_000: "3.4M",
	}
	for input, want := range cases {
		if got := FormatCount(input); got != want {
			t.Fatalf("FormatCount(%d) = %q, want %q", input, got, want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("jane@example.com") {
		t.Fatal("expected valid email")
	}
	for _, bad := range []string{"", "jane", "jane@example", "ja ne@example.com"} {
		if IsValidEmail(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
