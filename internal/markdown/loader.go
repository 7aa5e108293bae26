package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultPattern = "*.md"

// Document is one blog post parsed from disk.
type Document struct {
	// ID is the file name without the .md extension. It is set once by the
	// loader and never reassigned.
	ID          string
	Filename    string
	FrontMatter FrontMatter
	Body        string
}

// Entry is one step of a Load sequence: a parsed document, or the error
// that kept the file from being parsed.
type Entry struct {
	Filename string
	Document *Document
	Err      error
}

// LoaderConfig configures how Markdown files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	Logger  interfaces.Logger
	// FS opens the content directory. Defaults to os.DirFS.
	FS func(dir string) fs.FS
}

// Loader reads a flat directory of Markdown posts.
type Loader struct {
	pattern string
	logger  interfaces.Logger
	open    func(dir string) fs.FS
}

// NewLoader constructs a Loader from cfg.
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		pattern: strings.TrimSpace(cfg.Pattern),
		logger:  cfg.Logger,
		open:    cfg.FS,
	}
	if l.pattern == "" {
		l.pattern = defaultPattern
	}
	if l.logger == nil {
		l.logger = logging.NoOp()
	}
	if l.open == nil {
		l.open = os.DirFS
	}
	return l
}

// Load lists the Markdown files in dir and returns a sequence that reads and
// parses them one at a time, in lexicographic file name order. A missing
// directory yields ErrDirectoryNotFound; an empty directory yields an empty
// sequence and no error. Per-file read and parse failures are reported on
// the entry and never stop the sequence.
func (l *Loader) Load(ctx context.Context, dir string) (iter.Seq[Entry], error) {
	fsys, names, err := l.scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	l.logger.WithContext(ctx).Debug("markdown.load.listed", "dir", dir, "files", len(names))

	return func(yield func(Entry) bool) {
		for _, name := range names {
			if !yield(l.loadFile(fsys, name)) {
				return
			}
		}
	}, nil
}

// Files returns the names Load would visit, in the same order, without
// reading them.
func (l *Loader) Files(ctx context.Context, dir string) ([]string, error) {
	_, names, err := l.scan(ctx, dir)
	return names, err
}

func (l *Loader) scan(ctx context.Context, dir string) (fs.FS, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fsys := l.open(dir)
	info, err := fs.Stat(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, directoryNotFound(dir, err)
		}
		return nil, nil, fmt.Errorf("markdown loader stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, directoryNotFound(dir, fmt.Errorf("%s is not a directory", dir))
	}

	names, err := l.list(fsys)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown loader list %s: %w", dir, err)
	}
	return fsys, names, nil
}

// Collect drains a Load sequence into a slice.
func Collect(entries iter.Seq[Entry]) []Entry {
	if entries == nil {
		return nil
	}
	return slices.Collect(entries)
}

func (l *Loader) list(fsys fs.FS) ([]string, error) {
	dirEntries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		match, err := path.Match(l.pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", l.pattern, err)
		}
		if match {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (l *Loader) loadFile(fsys fs.FS, name string) Entry {
	entry := Entry{Filename: name}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		entry.Err = fmt.Errorf("markdown loader read %s: %w", name, err)
		return entry
	}

	doc, err := ParseDocument(name, data)
	if err != nil {
		logging.WithFileContext(l.logger, name, "parse").Debug("markdown.load.malformed", "error", err)
		entry.Err = err
		return entry
	}
	entry.Document = doc
	return entry
}

// ParseDocument builds a Document from the file name and its raw content.
func ParseDocument(filename string, source []byte) (*Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, MalformedFrontmatter(filename, err)
	}
	return &Document{
		ID:          DocumentID(filename),
		Filename:    filename,
		FrontMatter: fm,
		Body:        string(body),
	}, nil
}

// DocumentID derives the post identifier from a file name.
func DocumentID(filename string) string {
	return strings.TrimSuffix(path.Base(filename), ".md")
}
