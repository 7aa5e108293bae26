package comments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CommentRepository abstracts storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, record *Comment) (*Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	// ListTopLevel returns the comments of a post that reply to nothing,
	// newest first.
	ListTopLevel(ctx context.Context, postID string) ([]*Comment, error)
	// ListReplies returns the replies to parentID, oldest first.
	ListReplies(ctx context.Context, parentID uuid.UUID) ([]*Comment, error)
	UpdateContent(ctx context.Context, record *Comment) (*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustCounter(ctx context.Context, id uuid.UUID, counter Counter, delta int) error
}

// ReactionRepository stores comment reactions. Set and the comment like and
// dislike counters move together.
type ReactionRepository interface {
	Get(ctx context.Context, commentID uuid.UUID, userID string) (Kind, error)
	// Set replaces the user's reaction with next and returns the one it
	// replaced. KindNone clears it.
	Set(ctx context.Context, reaction *Reaction, next Kind) (Kind, error)
	DeleteByComment(ctx context.Context, commentID uuid.UUID) error
}

// Counter names a denormalised comment counter column.
type Counter string

const (
	CounterLikes    Counter = "like_count"
	CounterDislikes Counter = "dislike_count"
	CounterReplies  Counter = "reply_count"
)

func (c Counter) valid() bool {
	return c == CounterLikes || c == CounterDislikes || c == CounterReplies
}

func counterFor(kind Kind) (Counter, bool) {
	switch kind {
	case KindLike:
		return CounterLikes, true
	case KindDislike:
		return CounterDislikes, true
	default:
		return "", false
	}
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
