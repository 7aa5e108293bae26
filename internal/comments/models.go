package comments

import (
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comment is the stored form of a reader comment. PostID holds the post slug.
type Comment struct {
	bun.BaseModel `bun:"table:blog_comments,alias:c"`

	ID              uuid.UUID `bun:",pk,type:uuid"`
	PostID          string    `bun:"post_id,notnull"`
	ParentID        uuid.UUID `bun:"parent_id,type:uuid,nullzero"`
	UserID          string    `bun:"user_id,notnull"`
	UserDisplayName string    `bun:"user_display_name"`
	UserPhotoURL    string    `bun:"user_photo_url"`
	Content         string    `bun:"content,notnull"`
	LikeCount       int       `bun:"like_count,notnull,default:0"`
	DislikeCount    int       `bun:"dislike_count,notnull,default:0"`
	ReplyCount      int       `bun:"reply_count,notnull,default:0"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != uuid.Nil
}

// Reaction is the like or dislike a user left on a comment.
type Reaction struct {
	bun.BaseModel `bun:"table:blog_comment_reactions,alias:cr"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	CommentID uuid.UUID `bun:"comment_id,type:uuid,notnull"`
	UserID    string    `bun:"user_id,notnull"`
	IsLike    bool      `bun:"is_like"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// Kind is the reaction a user holds on a comment.
type Kind string

const (
	KindNone    Kind = ""
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
)

func (r *Reaction) kind() Kind {
	if r == nil {
		return KindNone
	}
	if r.IsLike {
		return KindLike
	}
	return KindDislike
}

// Models lists the tables owned by this package, in creation order.
func Models() []any {
	return []any{(*Comment)(nil), (*Reaction)(nil)}
}

func cloneComment(src *Comment) *Comment {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}

func toInterface(c *Comment) *interfaces.Comment {
	if c == nil {
		return nil
	}
	out := &interfaces.Comment{
		ID:              c.ID.String(),
		PostID:          c.PostID,
		UserID:          c.UserID,
		UserDisplayName: c.UserDisplayName,
		UserPhotoURL:    c.UserPhotoURL,
		Content:         c.Content,
		LikeCount:       c.LikeCount,
		DislikeCount:    c.DislikeCount,
		ReplyCount:      c.ReplyCount,
		CreatedAt:       c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.IsReply() {
		out.ParentID = c.ParentID.String()
	}
	return out
}
