package migrate

import (
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeCollaboratorFailure tags errors returned by a collaborator call.
const TextCodeCollaboratorFailure = "COLLABORATOR_FAILURE"

func collaboratorFailure(operation, file string, source error) error {
	failure := goerrors.New(operation+" failed", goerrors.CategoryExternal).
		WithTextCode(TextCodeCollaboratorFailure).
		WithMetadata(map[string]any{"operation": operation, "file": file})
	failure.Source = source
	return failure
}

// IsCollaboratorFailure reports whether err came from a collaborator call.
func IsCollaboratorFailure(err error) bool {
	var e *goerrors.Error
	return goerrors.As(err, &e) && e.TextCode == TextCodeCollaboratorFailure
}

// Describe renders err for people: the message of a go-errors value
// followed by its source, without the category prefix.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return err.Error()
	}
	if e.Source == nil {
		return e.Message
	}
	return e.Message + ": " + Describe(e.Source)
}
