package markdown

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"My Post!":             "my-post",
		"  Hello   World  ":    "hello-world",
		"Go 1.22: What's New?": "go-122-whats-new",
		"--Already--dashed--":  "already-dashed",
		"snake_case stays":     "snake_case-stays",
		"":                     "",
		"Tabs\tand\nnewlines":  "tabs-and-newlines",
	}
	for input, want := range cases {
		if got := GenerateSlug(input); got != want {
			t.Fatalf("GenerateSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "hello-world", "2024-recap"}
	invalid := []string{"", "Hello", "snake_case", "with space", "émigré"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
