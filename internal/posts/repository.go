package posts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PostRepository abstracts storage operations for posts.
type PostRepository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, criteria ListCriteria) ([]*Post, error)
	Update(ctx context.Context, record *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustCounter adds delta to one of the post counters.
	AdjustCounter(ctx context.Context, id uuid.UUID, counter Counter, delta int) error
}

// LikeRepository stores post likes. Add and Remove keep the post like
// counter in step with the like rows.
type LikeRepository interface {
	Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	// Add stores the like and bumps the counter. It reports false when the
	// user already liked the post.
	Add(ctx context.Context, like *Like) (bool, error)
	// Remove deletes the like and lowers the counter. It reports false when
	// there was no like to remove.
	Remove(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}

// Counter names a denormalised post counter column.
type Counter string

const (
	CounterLikes    Counter = "like_count"
	CounterComments Counter = "comment_count"
)

func (c Counter) valid() bool {
	return c == CounterLikes || c == CounterComments
}

// ListCriteria selects a window of posts ordered by date, newest first, then
// by slug.
type ListCriteria struct {
	Limit         int
	Offset        int
	PublishedOnly bool
	// After, when set, starts the window right after this position.
	After *Cursor
}

// Cursor is a position in the date/slug ordering.
type Cursor struct {
	Date string
	Slug string
}

// before reports whether p sorts strictly after the cursor position.
func (c *Cursor) before(p *Post) bool {
	if c == nil {
		return true
	}
	if p.Date != c.Date {
		return p.Date < c.Date
	}
	return p.Slug > c.Slug
}

// NotFoundError is returned by repositories when a record does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
