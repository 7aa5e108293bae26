// Package report renders workflow results for people reading a terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// Glyphs are the markers printed in front of report lines.
type Glyphs struct {
	Start   string
	Preview string
	Created string
	Updated string
	Skipped string
	Error   string
	Unknown string
	Summary string
	Hint    string
	Search  string
	Valid   string
	Bullet  string
	Empty   string
	Listing string
	File    string
	Warning string
	Goodbye string
	Yes     string
	No      string
	Success string
}

// EmojiGlyphs decorate lines the way an interactive terminal expects.
var EmojiGlyphs = Glyphs{
	Start:   "🚀",
	Preview: "📋",
	Created: "✅",
	Updated: "🔄",
	Skipped: "⏭️ ",
	Error:   "❌",
	Unknown: "❓",
	Summary: "📊",
	Hint:    "💡",
	Search:  "🔍",
	Valid:   "✅",
	Bullet:  "•",
	Empty:   "📝",
	Listing: "📚",
	File:    "📄",
	Warning: "⚠️ ",
	Goodbye: "👋",
	Yes:     "✅",
	No:      "❌",
	Success: "✅",
}

// PlainGlyphs keep piped and logged output ASCII.
var PlainGlyphs = Glyphs{
	Start:   "==>",
	Preview: "->",
	Created: "[created]",
	Updated: "[updated]",
	Skipped: "[skipped]",
	Error:   "[error]",
	Unknown: "[?]",
	Summary: "==",
	Hint:    "hint:",
	Search:  "==>",
	Valid:   "ok:",
	Bullet:  "-",
	Empty:   "--",
	Listing: "==>",
	File:    "--",
	Warning: "warning:",
	Goodbye: "--",
	Yes:     "yes",
	No:      "no",
	Success: "ok:",
}

// Printer writes report lines to out and per-file failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	glyphs Glyphs
	color  bool
}

// Option customises a Printer.
type Option func(*Printer)

// WithEmoji forces emoji or plain glyphs regardless of the terminal.
func WithEmoji(enabled bool) Option {
	return func(p *Printer) {
		if enabled {
			p.glyphs = EmojiGlyphs
			return
		}
		p.glyphs = PlainGlyphs
	}
}

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// NewPrinter builds a Printer. Emoji and colors are on when out is a
// terminal.
func NewPrinter(out, errOut io.Writer, opts ...Option) *Printer {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = out
	}
	tty := isTerminal(out)
	p := &Printer{out: out, errOut: errOut, glyphs: PlainGlyphs, color: tty}
	if tty {
		p.glyphs = EmojiGlyphs
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Glyphs returns the markers in use.
func (p *Printer) Glyphs() Glyphs { return p.glyphs }

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) paint(color text.Color, s string) string {
	if !p.color {
		return s
	}
	return color.Sprint(s)
}

func (p *Printer) renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	if p.color {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
