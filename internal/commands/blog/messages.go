package blogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/migrate"
	blogvalidation "github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	migrateMessageType  = "blog.posts.migrate"
	validateMessageType = "blog.posts.validate"
	createMessageType   = "blog.posts.create"
	listMessageType     = "blog.posts.list"
)

// MigrateCommand migrates every Markdown post in Directory into the post
// store. Callbacks and the Report pointer are how a caller observes the run.
type MigrateCommand struct {
	Directory string `json:"directory"`
	// DryRun previews the run without calling the store.
	DryRun bool `json:"dry_run,omitempty"`
	// Session signs the writes. Nil runs anonymously.
	Session *interfaces.Session `json:"-"`
	// OnStart receives the number of files found before any is read.
	OnStart  func(total int)              `json:"-"`
	OnResult func(res migrate.FileResult) `json:"-"`
	// Report, when set, receives the final report.
	Report *migrate.Report `json:"-"`
}

// Type implements command.Message.
func (MigrateCommand) Type() string { return migrateMessageType }

// Validate ensures a directory is present before handlers execute.
func (cmd MigrateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(directoryRequired(migrateMessageType))),
	)
}

// ValidateCommand runs the content checks over Directory.
type ValidateCommand struct {
	Directory string                 `json:"directory"`
	OnStart   func(total int)        `json:"-"`
	Report    *blogvalidation.Report `json:"-"`
}

// Type implements command.Message.
func (ValidateCommand) Type() string { return validateMessageType }

// Validate ensures a directory is present before handlers execute.
func (cmd ValidateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(directoryRequired(validateMessageType))),
	)
}

// CreatePostCommand writes a new post file from the wizard answers.
type CreatePostCommand struct {
	Draft     authoring.Draft `json:"draft"`
	Overwrite bool            `json:"overwrite,omitempty"`
	// Path receives the written file path.
	Path *string `json:"-"`
}

// Type implements command.Message.
func (CreatePostCommand) Type() string { return createMessageType }

// Validate checks the draft fields the wizard insists on.
func (cmd CreatePostCommand) Validate() error {
	return cmd.Draft.Validate()
}

// ListPostsCommand summarises the posts of the content directory.
type ListPostsCommand struct {
	// Setup receives what had to be created before listing.
	Setup     *authoring.Setup     `json:"-"`
	Summaries *[]authoring.Summary `json:"-"`
}

// Type implements command.Message.
func (ListPostsCommand) Type() string { return listMessageType }

// Validate implements command.Message validation; the command has no input.
func (ListPostsCommand) Validate() error { return nil }

func directoryRequired(messageType string) validation.RuleFunc {
	return func(value any) error {
		dir, _ := value.(string)
		if strings.TrimSpace(dir) == "" {
			return validation.NewError(messageType+".directory_required", "directory is required")
		}
		return nil
	}
}
