package posts

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/migrate"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Collaborators adapts a post store into the capabilities the migration
// engine calls. Every write runs under session.
func Collaborators(store interfaces.PostStore, session *interfaces.Session) migrate.Collaborators {
	return migrate.Collaborators{
		FindExisting: func(ctx context.Context, id string) (*interfaces.Post, error) {
			post, err := store.Get(ctx, id)
			if errors.Is(err, ErrPostNotFound) {
				return nil, nil
			}
			return post, err
		},
		Create: func(ctx context.Context, record interfaces.PostInput) (string, error) {
			post, err := store.Create(ctx, session, record)
			if err != nil {
				return "", err
			}
			return post.ID, nil
		},
		Update: func(ctx context.Context, id string, record interfaces.PostInput) error {
			_, err := store.Update(ctx, session, id, record)
			return err
		},
	}
}
