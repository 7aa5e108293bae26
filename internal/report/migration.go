package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/internal/validation"
)

// MissingDirectory explains that there is nothing to migrate yet.
func (p *Printer) MissingDirectory(dir string) {
	p.println(p.paint(text.FgRed, p.glyphs.Error+" Content directory does not exist: "+dir))
	p.println(p.glyphs.Hint + " Run the blog manager first to create some posts.")
}

// NoFiles reports an empty content directory.
func (p *Printer) NoFiles() {
	p.println(p.glyphs.Empty + " No markdown files found to migrate.")
	p.println(p.glyphs.Hint + " Add some .md files to your content directory first.")
}

// MigrationStart announces a run over total files.
func (p *Printer) MigrationStart(total int, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "DRY RUN: "
	}
	p.printf("%s %sMigrating %d blog post(s)...\n", p.glyphs.Start, prefix, total)
}

// Preview shows what a dry run would write for one file.
func (p *Printer) Preview(res migrate.FileResult) {
	if res.Record == nil {
		return
	}
	p.printf("%s Would migrate: %s\n", p.glyphs.Preview, res.File)
	p.printf("   Title: %s\n", res.Record.Title)
	p.printf("   Published: %t\n", res.Record.Published)
}

// Result prints the one-line outcome of a file.
func (p *Printer) Result(res migrate.FileResult) {
	p.printf("  %s %s - %s\n", p.outcomeGlyph(res.Outcome), res.File, res.Outcome)
}

// FileError writes a per-file failure to the error stream.
func (p *Printer) FileError(res migrate.FileResult) {
	if res.Err == nil {
		return
	}
	fmt.Fprintln(p.errOut, p.paint(text.FgRed, fmt.Sprintf("%s Error migrating %s: %s", p.glyphs.Error, res.File, migrate.Describe(res.Err))))
}

// Summary prints the counters of a run, the failures table when any file
// failed, and the dry run reminder.
func (p *Printer) Summary(report migrate.Report) {
	p.printf("\n%s Migration Summary:\n", p.glyphs.Summary)
	p.printf("  %s Created: %d\n", p.glyphs.Created, report.Created)
	p.printf("  %s Updated: %d\n", p.glyphs.Updated, report.Updated)
	p.printf("  %s Skipped: %d\n", p.glyphs.Skipped, report.Skipped)
	p.printf("  %s Errors: %d\n", p.glyphs.Error, report.Errors)

	if failures := report.Failures(); len(failures) > 0 {
		rows := make([][]string, 0, len(failures))
		for _, failure := range failures {
			rows = append(rows, []string{failure.File, migrate.Describe(failure.Err)})
		}
		p.println()
		p.println(p.renderTable([]string{"File", "Error"}, rows))
	}
	if report.Interrupted {
		p.printf("\n%s Migration interrupted; remaining files were not processed.\n", p.glyphs.Warning)
	}
	if report.DryRun {
		p.printf("\n%s This was a dry run. Use --no-dry-run to actually migrate the posts.\n", p.glyphs.Hint)
	}
}

// ValidationMissingDirectory reports a missing content directory before validation.
func (p *Printer) ValidationMissingDirectory(dir string) {
	p.println(p.paint(text.FgRed, p.glyphs.Error+" Content directory does not exist: "+dir))
}

// ValidationStart announces a validation pass over total files.
func (p *Printer) ValidationStart(total int) {
	p.printf("%s Validating %d blog post(s)...\n", p.glyphs.Search, total)
}

// Validation prints the verdict and every issue.
func (p *Printer) Validation(report validation.Report) {
	if report.Valid() {
		p.println(p.paint(text.FgGreen, p.glyphs.Valid+" All blog posts are valid!"))
		return
	}
	p.println(p.paint(text.FgRed, fmt.Sprintf("%s Found %d issue(s):", p.glyphs.Error, len(report.Issues))))
	for _, issue := range report.Issues {
		p.printf("  %s %s\n", p.glyphs.Bullet, issue.String())
	}
}

func (p *Printer) outcomeGlyph(outcome migrate.Outcome) string {
	switch outcome {
	case migrate.OutcomeCreated:
		return p.glyphs.Created
	case migrate.OutcomeUpdated:
		return p.glyphs.Updated
	case migrate.OutcomeSkipped:
		return p.glyphs.Skipped
	case migrate.OutcomeError:
		return p.glyphs.Error
	default:
		return p.glyphs.Unknown
	}
}
