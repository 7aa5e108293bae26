package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	ErrCommentsDisabled = errors.New("comments: comments are disabled")
	ErrAuthRequired     = errors.New("comments: authentication required")
	ErrCommentNotFound  = errors.New("comments: comment not found")
	ErrPermissionDenied = errors.New("comments: permission denied")
	ErrInvalidComment   = errors.New("comments: invalid comment")
	ErrParentMismatch   = errors.New("comments: parent belongs to another post")
	ErrUnknownCounter   = errors.New("comments: unknown counter")
)

// Posts is the slice of the post service comments depend on.
type Posts interface {
	Get(ctx context.Context, slug string) (*interfaces.Post, error)
	AdjustCommentCount(ctx context.Context, slug string, delta int) error
}

// Service manages comments, replies and their reactions.
type Service interface {
	Add(ctx context.Context, session *interfaces.Session, input interfaces.NewComment) (*interfaces.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*interfaces.Comment, error)
	Replies(ctx context.Context, parentID string) ([]*interfaces.Comment, error)
	Edit(ctx context.Context, session *interfaces.Session, id, content string) (*interfaces.Comment, error)
	Delete(ctx context.Context, session *interfaces.Session, id string) error
	Like(ctx context.Context, session *interfaces.Session, id string) error
	Dislike(ctx context.Context, session *interfaces.Session, id string) error
	ClearReaction(ctx context.Context, session *interfaces.Session, id string) error
	HasLiked(ctx context.Context, session *interfaces.Session, id string) (bool, error)
	HasDisliked(ctx context.Context, session *interfaces.Session, id string) (bool, error)
}

// IDGenerator issues comment identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the comment id source.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEnabled toggles the whole service.
func WithEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.enabled = enabled
	}
}

// WithMaxLength caps comment length in runes. Zero removes the cap.
func WithMaxLength(limit int) ServiceOption {
	return func(s *service) {
		if limit >= 0 {
			s.maxLength = limit
		}
	}
}

// DefaultMaxLength bounds comment content unless WithMaxLength says otherwise.
const DefaultMaxLength = 2000

type service struct {
	comments  CommentRepository
	reactions ReactionRepository
	posts     Posts
	now       func() time.Time
	id        IDGenerator
	logger    interfaces.Logger
	enabled   bool
	maxLength int
}

// NewService constructs a comment service.
func NewService(comments CommentRepository, reactions ReactionRepository, posts Posts, opts ...ServiceOption) Service {
	s := &service{
		comments:  comments,
		reactions: reactions,
		posts:     posts,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
		enabled:   true,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Add(ctx context.Context, session *interfaces.Session, input interfaces.NewComment) (*interfaces.Comment, error) {
	if err := s.guard(session); err != nil {
		return nil, err
	}
	input.PostID = strings.TrimSpace(input.PostID)
	input.Content = strings.TrimSpace(input.Content)
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.posts.Get(ctx, input.PostID); err != nil {
		return nil, err
	}

	var parent *Comment
	if parentID := strings.TrimSpace(input.ParentID); parentID != "" {
		var err error
		if parent, err = s.lookup(ctx, parentID); err != nil {
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentMismatch
		}
	}

	now := s.now().UTC()
	record := &Comment{
		ID:              s.id(),
		PostID:          input.PostID,
		UserID:          session.UserID,
		UserDisplayName: displayName(session),
		UserPhotoURL:    session.PhotoURL,
		Content:         input.Content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if parent != nil {
		record.ParentID = parent.ID
	}

	created, err := s.comments.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	// counters live in two stores, so a failed bump undoes the earlier steps
	if parent != nil {
		if err := s.comments.AdjustCounter(ctx, parent.ID, CounterReplies, 1); err != nil {
			s.undoAdd(ctx, created.ID, nil)
			return nil, err
		}
	}
	if err := s.posts.AdjustCommentCount(ctx, input.PostID, 1); err != nil {
		s.undoAdd(ctx, created.ID, parent)
		return nil, err
	}
	s.logger.Info("comments.added", "post", input.PostID, "comment", created.ID.String(), "reply", parent != nil)
	return toInterface(created), nil
}

func (s *service) undoAdd(ctx context.Context, id uuid.UUID, parent *Comment) {
	if parent != nil {
		if err := s.comments.AdjustCounter(ctx, parent.ID, CounterReplies, -1); err != nil {
			s.logger.Warn("comments.add.rollback_failed", "comment", id.String(), "step", "reply_count", "error", err)
		}
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		s.logger.Warn("comments.add.rollback_failed", "comment", id.String(), "step", "delete", "error", err)
	}
}

func (s *service) ListByPost(ctx context.Context, postID string) ([]*interfaces.Comment, error) {
	if !s.enabled {
		return nil, ErrCommentsDisabled
	}
	records, err := s.comments.ListTopLevel(ctx, strings.TrimSpace(postID))
	if err != nil {
		return nil, err
	}
	return toInterfaces(records), nil
}

func (s *service) Replies(ctx context.Context, parentID string) ([]*interfaces.Comment, error) {
	if !s.enabled {
		return nil, ErrCommentsDisabled
	}
	id, err := parseID(parentID)
	if err != nil {
		return nil, err
	}
	records, err := s.comments.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInterfaces(records), nil
}

func (s *service) Edit(ctx context.Context, session *interfaces.Session, id, content string) (*interfaces.Comment, error) {
	if err := s.guard(session); err != nil {
		return nil, err
	}
	record, err := s.owned(ctx, session, id)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if err := s.validateContent(content); err != nil {
		return nil, err
	}
	record.Content = content
	record.UpdatedAt = s.now().UTC()
	updated, err := s.comments.UpdateContent(ctx, record)
	if err != nil {
		return nil, s.mapNotFound(err, id)
	}
	return toInterface(updated), nil
}

// Delete removes a single comment. Replies stay in place; the post and
// parent counters drop by one.
func (s *service) Delete(ctx context.Context, session *interfaces.Session, id string) error {
	if err := s.guard(session); err != nil {
		return err
	}
	record, err := s.owned(ctx, session, id)
	if err != nil {
		return err
	}
	if err := s.reactions.DeleteByComment(ctx, record.ID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, record.ID); err != nil {
		return s.mapNotFound(err, id)
	}
	if err := s.posts.AdjustCommentCount(ctx, record.PostID, -1); err != nil {
		return err
	}
	if record.IsReply() {
		err := s.comments.AdjustCounter(ctx, record.ParentID, CounterReplies, -1)
		var notFound *NotFoundError
		if err != nil && !errors.As(err, &notFound) {
			return err
		}
	}
	s.logger.Info("comments.deleted", "post", record.PostID, "comment", record.ID.String())
	return nil
}

func (s *service) Like(ctx context.Context, session *interfaces.Session, id string) error {
	return s.react(ctx, session, id, KindLike)
}

func (s *service) Dislike(ctx context.Context, session *interfaces.Session, id string) error {
	return s.react(ctx, session, id, KindDislike)
}

func (s *service) ClearReaction(ctx context.Context, session *interfaces.Session, id string) error {
	return s.react(ctx, session, id, KindNone)
}

func (s *service) HasLiked(ctx context.Context, session *interfaces.Session, id string) (bool, error) {
	kind, err := s.reaction(ctx, session, id)
	return kind == KindLike, err
}

func (s *service) HasDisliked(ctx context.Context, session *interfaces.Session, id string) (bool, error) {
	kind, err := s.reaction(ctx, session, id)
	return kind == KindDislike, err
}

func (s *service) react(ctx context.Context, session *interfaces.Session, id string, next Kind) error {
	if err := s.guard(session); err != nil {
		return err
	}
	record, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.reactions.Set(ctx, &Reaction{
		ID:        identity.CommentReactionUUID(record.ID, session.UserID),
		CommentID: record.ID,
		UserID:    session.UserID,
		CreatedAt: s.now().UTC(),
	}, next)
	return s.mapNotFound(err, id)
}

// reaction is KindNone for anonymous sessions.
func (s *service) reaction(ctx context.Context, session *interfaces.Session, id string) (Kind, error) {
	if !session.Authenticated() {
		return KindNone, nil
	}
	commentID, err := parseID(id)
	if err != nil {
		return KindNone, err
	}
	return s.reactions.Get(ctx, commentID, session.UserID)
}

func (s *service) guard(session *interfaces.Session) error {
	if !s.enabled {
		return ErrCommentsDisabled
	}
	if !session.Authenticated() {
		return ErrAuthRequired
	}
	return nil
}

func (s *service) owned(ctx context.Context, session *interfaces.Session, id string) (*Comment, error) {
	record, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != session.UserID {
		return nil, ErrPermissionDenied
	}
	return record, nil
}

func (s *service) lookup(ctx context.Context, id string) (*Comment, error) {
	commentID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	record, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.mapNotFound(err, id)
	}
	return record, nil
}

func (s *service) validateInput(input interfaces.NewComment) error {
	if err := validation.Validate(input.PostID, validation.Required.Error("post id is required")); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidComment, err)
	}
	return s.validateContent(input.Content)
}

func (s *service) validateContent(content string) error {
	rules := []validation.Rule{validation.Required.Error("content is required")}
	if s.maxLength > 0 {
		rules = append(rules, validation.RuneLength(0, s.maxLength).Error(fmt.Sprintf("content must be at most %d characters", s.maxLength)))
	}
	if err := validation.Validate(content, rules...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidComment, err)
	}
	return nil
}

func (s *service) mapNotFound(err error, id string) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrCommentNotFound, id)
	}
	return err
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrCommentNotFound, id)
	}
	return parsed, nil
}

// displayName falls back to a well-formed email, then "Anonymous".
func displayName(session *interfaces.Session) string {
	if name := strings.TrimSpace(session.DisplayName); name != "" {
		return name
	}
	if email := strings.TrimSpace(session.Email); markdown.IsValidEmail(email) {
		return email
	}
	return "Anonymous"
}

func toInterfaces(records []*Comment) []*interfaces.Comment {
	out := make([]*interfaces.Comment, 0, len(records))
	for _, rec := range records {
		out = append(out, toInterface(rec))
	}
	return out
}
