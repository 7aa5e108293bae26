package authoring

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blog/internal/markdown"
)

const templateBody = `
Start writing your blog post content here. This is the introduction paragraph.

## First Section Heading

Your content goes here...

## Second Section Heading

More content here...

## Conclusion

Concluding thoughts here...
`

// frontMatter fixes the key order of a written post.
type frontMatter struct {
	Title     string   `yaml:"title"`
	Excerpt   string   `yaml:"excerpt"`
	Author    string   `yaml:"author"`
	Date      string   `yaml:"date"`
	ImageURL  string   `yaml:"imageUrl"`
	ImageHint string   `yaml:"imageHint"`
	Published bool     `yaml:"published"`
	Tags      []string `yaml:"tags"`
}

// DefaultTemplate is the starter file written next to the content
// directory. date is stamped into its front matter.
func DefaultTemplate(date string) ([]byte, error) {
	return Render(frontMatter{
		Title:     "Your Blog Post Title",
		Excerpt:   "A brief summary of your blog post (2-3 sentences)",
		Author:    "Author Name",
		Date:      date,
		ImageURL:  "/images/your-image.jpg",
		ImageHint: "Brief description of the image for accessibility",
		Tags:      []string{},
	}, templateBody)
}

// Render writes meta as a YAML front matter block followed by body.
func Render(meta any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("authoring: encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("authoring: encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	body = strings.TrimLeft(body, "\r\n")
	buf.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// templateContent returns the Markdown body of a template file, dropping
// its front matter.
func templateContent(source []byte) (string, error) {
	_, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return "", markdown.MalformedFrontmatter("template", err)
	}
	return string(body), nil
}
