package interfaces

import "context"

// PostInput carries the writable fields of a blog post. The migration
// workflow builds one per Markdown file; the posts service persists it.
type PostInput struct {
	Slug         string   `json:"slug,omitempty"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Excerpt      string   `json:"excerpt"`
	Author       string   `json:"author"`
	Date         string   `json:"date"`
	ImageURL     string   `json:"imageUrl"`
	ImageHint    string   `json:"imageHint"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags"`
	CommentCount int      `json:"commentCount"`
	LikeCount    int      `json:"likeCount"`
}

// Post is a stored blog post keyed by its slug.
type Post struct {
	PostInput
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// PostPage is one page of posts ordered by date, newest first.
type PostPage struct {
	Posts   []*Post
	HasMore bool
	// Cursor is the slug of the last post on the page; pass it back as
	// ListOptions.After to fetch the next page.
	Cursor string
}

// Session identifies the signed-in user performing a mutating call. A nil
// session or an empty UserID means anonymous.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Authenticated reports whether the session carries a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// PostStore is the narrow contract the migration collaborators need.
type PostStore interface {
	Get(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, session *Session, input PostInput) (*Post, error)
	Update(ctx context.Context, session *Session, slug string, input PostInput) (*Post, error)
}
