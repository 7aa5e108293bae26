package posts

import (
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the stored form of a blog post.
type Post struct {
	bun.BaseModel `bun:"table:blog_posts,alias:p"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug         string    `bun:"slug,notnull,unique" json:"slug"`
	Title        string    `bun:"title,notnull" json:"title"`
	Content      string    `bun:"content" json:"content"`
	Excerpt      string    `bun:"excerpt" json:"excerpt"`
	Author       string    `bun:"author" json:"author"`
	Date         string    `bun:"post_date" json:"date"`
	ImageURL     string    `bun:"image_url" json:"imageUrl"`
	ImageHint    string    `bun:"image_hint" json:"imageHint"`
	Published    bool      `bun:"published" json:"published"`
	Tags         []string  `bun:"tags,type:jsonb" json:"tags"`
	CommentCount int       `bun:"comment_count,notnull,default:0" json:"commentCount"`
	LikeCount    int       `bun:"like_count,notnull,default:0" json:"likeCount"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// Like records that a user liked a post. The id is derived from the post
// and the user so a second like collides.
type Like struct {
	bun.BaseModel `bun:"table:blog_post_likes,alias:pl"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PostID    uuid.UUID `bun:"post_id,type:uuid,notnull" json:"postId"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
}

// Models lists the tables owned by this package, in creation order.
func Models() []any {
	return []any{(*Post)(nil), (*Like)(nil)}
}

func clonePost(src *Post) *Post {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Tags = append([]string{}, src.Tags...)
	return &copied
}

func (p *Post) input() interfaces.PostInput {
	return interfaces.PostInput{
		Slug:         p.Slug,
		Title:        p.Title,
		Content:      p.Content,
		Excerpt:      p.Excerpt,
		Author:       p.Author,
		Date:         p.Date,
		ImageURL:     p.ImageURL,
		ImageHint:    p.ImageHint,
		Published:    p.Published,
		Tags:         append([]string{}, p.Tags...),
		CommentCount: p.CommentCount,
		LikeCount:    p.LikeCount,
	}
}

func (p *Post) apply(in interfaces.PostInput) {
	p.Title = in.Title
	p.Content = in.Content
	p.Excerpt = in.Excerpt
	p.Author = in.Author
	p.Date = in.Date
	p.ImageURL = in.ImageURL
	p.ImageHint = in.ImageHint
	p.Published = in.Published
	p.Tags = append([]string{}, in.Tags...)
}

// toInterface converts the stored model into the public shape.
func toInterface(p *Post) *interfaces.Post {
	if p == nil {
		return nil
	}
	out := &interfaces.Post{
		PostInput: p.input(),
		ID:        p.Slug,
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
