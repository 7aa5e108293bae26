package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/markdown"
)

const tableTitleWidth = 40

// Setup reports the directories and template the manager had to create.
func (p *Printer) Setup(setup authoring.Setup, contentDir, templatePath string) {
	if setup.CreatedContentDir {
		p.println(p.glyphs.Success + " Created content directory: " + contentDir)
	}
	if setup.CreatedTemplate {
		p.println(p.glyphs.Success + " Created blog template at: " + templatePath)
	}
}

// PostCreated confirms a new post and lists what to do next.
func (p *Printer) PostCreated(path string) {
	p.println(p.paint(text.FgGreen, p.glyphs.Success+" Created new blog post at: "+path))
	p.println("Next steps:")
	p.println("1. Edit the content in your favorite markdown editor")
	p.println("2. Set published: true when ready to publish")
	p.println("3. Run your blog migration script if using a CMS")
}

// Cancelled reports a declined overwrite.
func (p *Printer) Cancelled() {
	p.println(p.glyphs.Error + " Operation cancelled.")
}

// ContentDirMissing reports that there is no content directory to list.
func (p *Printer) ContentDirMissing() {
	p.println(p.paint(text.FgRed, p.glyphs.Error+" Content directory does not exist."))
}

// Posts lists every summary, one block per file.
func (p *Printer) Posts(summaries []authoring.Summary) {
	if len(summaries) == 0 {
		p.println(p.glyphs.Empty + " No blog posts found.")
		return
	}
	p.printf("%s Found %d blog post(s):\n", p.glyphs.Listing, len(summaries))
	for _, s := range summaries {
		p.printf("\n%s %s\n", p.glyphs.File, s.File)
		p.printf("   Title: %s\n", s.Title)
		p.printf("   Author: %s\n", s.Author)
		p.printf("   Date: %s\n", s.Date)
		p.printf("   Published: %s\n", p.yesNo(s.Published))
		if len(s.Tags) > 0 {
			p.printf("   Tags: %s\n", strings.Join(s.Tags, ", "))
		}
	}
}

// PostsTable lists every summary as one table row.
func (p *Printer) PostsTable(summaries []authoring.Summary) {
	if len(summaries) == 0 {
		p.println(p.glyphs.Empty + " No blog posts found.")
		return
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.File,
			markdown.TruncateText(s.Title, tableTitleWidth, "..."),
			s.Author,
			markdown.FormatDate(s.Date),
			markdown.FormatCount(s.Words),
			fmt.Sprintf("%d min", s.ReadingTime),
			p.yesNo(s.Published),
			strings.Join(s.Tags, ", "),
		})
	}
	p.println(p.renderTable([]string{"File", "Title", "Author", "Date", "Words", "Reading", "Published", "Tags"}, rows))
}

// Goodbye closes an interactive session.
func (p *Printer) Goodbye() {
	p.println(p.glyphs.Goodbye + " Goodbye!")
}

func (p *Printer) yesNo(v bool) string {
	if v {
		return p.glyphs.Yes
	}
	return p.glyphs.No
}
