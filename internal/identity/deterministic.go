package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(false))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID is the primary key of the post stored under slug.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-blog:post:" + strings.TrimSpace(slug))
}

// PostLikeUUID keys the single like a user may leave on a post.
func PostLikeUUID(postID uuid.UUID, userID string) uuid.UUID {
	return UUID("go-blog:post_like:" + postID.String() + ":" + strings.TrimSpace(userID))
}

// CommentReactionUUID keys the single reaction a user may leave on a comment.
func CommentReactionUUID(commentID uuid.UUID, userID string) uuid.UUID {
	return UUID("go-blog:comment_reaction:" + commentID.String() + ":" + strings.TrimSpace(userID))
}
