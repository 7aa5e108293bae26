package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/goliatone/go-blog/internal/authoring"
	"github.com/goliatone/go-blog/internal/markdown"
)

const (
	actionCreate = "create"
	actionList   = "list"
	actionExit   = "exit"
)

// errPromptCancelled is returned when the user aborts a prompt.
var errPromptCancelled = errors.New("prompt cancelled")

type prompter interface {
	Action() (string, error)
	Draft(defaults authoring.Draft) (authoring.Draft, error)
	ConfirmOverwrite(slug string) (bool, error)
}

var newPrompter = func() prompter { return huhPrompter{} }

type huhPrompter struct{}

func (huhPrompter) Action() (string, error) {
	action := actionCreate
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Create a new blog post", actionCreate),
					huh.NewOption("List existing posts", actionList),
					huh.NewOption("Exit", actionExit),
				).
				Value(&action),
		),
	).Run()
	return action, mapAbort(err)
}

func (huhPrompter) Draft(defaults authoring.Draft) (authoring.Draft, error) {
	draft := defaults
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the blog post title:").
				Value(&draft.Title).
				Validate(authoring.ValidateTitle),
		),
	).Run()
	if err != nil {
		return draft, mapAbort(err)
	}

	if draft.Slug == "" {
		draft.Slug = markdown.GenerateSlug(draft.Title)
	}
	var tags string
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the blog post slug (used in URL):").
				Value(&draft.Slug).
				Validate(authoring.ValidateSlug),
			huh.NewText().
				Title("Enter a brief excerpt (2-3 sentences):").
				Value(&draft.Excerpt).
				Validate(authoring.ValidateExcerpt),
			huh.NewInput().
				Title("Enter the author name:").
				Value(&draft.Author),
			huh.NewInput().
				Title("Enter the image URL (optional):").
				Value(&draft.ImageURL),
			huh.NewInput().
				Title("Enter image description for accessibility:").
				Value(&draft.ImageHint),
			huh.NewInput().
				Title("Enter tags (comma-separated, optional):").
				Value(&tags),
		),
	).Run()
	if err != nil {
		return draft, mapAbort(err)
	}
	draft.Tags = authoring.ParseTags(tags)
	return draft, nil
}

func (huhPrompter) ConfirmOverwrite(slug string) (bool, error) {
	overwrite := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("File %s.md already exists. Overwrite?", slug)).
				Affirmative("Yes").
				Negative("No").
				Value(&overwrite),
		),
	).Run()
	return overwrite, mapAbort(err)
}

func mapAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errPromptCancelled
	}
	return err
}
