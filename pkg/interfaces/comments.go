package interfaces

// Comment is a reader comment attached to a post, optionally replying to
// another comment.
type Comment struct {
	ID              string `json:"id"`
	PostID          string `json:"postId"`
	UserID          string `json:"userId"`
	UserDisplayName string `json:"userDisplayName"`
	UserPhotoURL    string `json:"userPhotoURL,omitempty"`
	Content         string `json:"content"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	LikeCount       int    `json:"likeCount"`
	DislikeCount    int    `json:"dislikeCount"`
	ParentID        string `json:"parentId,omitempty"`
	ReplyCount      int    `json:"replyCount"`
}

// NewComment is the payload accepted when adding a comment or reply.
type NewComment struct {
	PostID   string `json:"postId"`
	Content  string `json:"content"`
	ParentID string `json:"parentId,omitempty"`
}
