// Package markdown loads blog posts stored as Markdown files with a YAML
// front matter block. It also carries the text helpers shared by the CLIs:
// slug generation, rendering, plain text extraction and reading time.
package markdown
