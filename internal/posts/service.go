package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/validation"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultPerPage is the page size used when ListOptions leaves it unset.
const DefaultPerPage = 6

var (
	ErrAuthRequired   = errors.New("posts: authentication required")
	ErrPostNotFound   = errors.New("posts: blog post not found")
	ErrSlugRequired   = errors.New("posts: slug is required")
	ErrSlugExists     = errors.New("posts: slug already exists")
	ErrTitleRequired  = errors.New("posts: title is required")
	ErrLikesDisabled  = errors.New("posts: likes are disabled")
	ErrUnknownCounter = errors.New("posts: unknown counter")
)

// Service manages blog posts and their likes.
type Service interface {
	Get(ctx context.Context, slug string) (*interfaces.Post, error)
	List(ctx context.Context, opts ListOptions) (*interfaces.PostPage, error)
	Create(ctx context.Context, session *interfaces.Session, input interfaces.PostInput) (*interfaces.Post, error)
	Update(ctx context.Context, session *interfaces.Session, slug string, input interfaces.PostInput) (*interfaces.Post, error)
	Delete(ctx context.Context, session *interfaces.Session, slug string) error
	Like(ctx context.Context, session *interfaces.Session, slug string) (bool, error)
	Unlike(ctx context.Context, session *interfaces.Session, slug string) (bool, error)
	HasLiked(ctx context.Context, session *interfaces.Session, slug string) (bool, error)
	AdjustCommentCount(ctx context.Context, slug string, delta int) error
}

// ListOptions selects a page of posts. After takes precedence over Page.
type ListOptions struct {
	// Page is 1-based.
	Page    int
	PerPage int
	// After is the Cursor of the previous page.
	After         string
	PublishedOnly bool
}

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

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLikesEnabled toggles the like operations.
func WithLikesEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.likesEnabled = enabled
	}
}

// WithRequireAuth controls whether writes need a signed-in session.
func WithRequireAuth(required bool) ServiceOption {
	return func(s *service) {
		s.requireAuth = required
	}
}

// WithPerPage overrides DefaultPerPage.
func WithPerPage(perPage int) ServiceOption {
	return func(s *service) {
		if perPage > 0 {
			s.perPage = perPage
		}
	}
}

type service struct {
	posts        PostRepository
	likes        LikeRepository
	now          func() time.Time
	logger       interfaces.Logger
	perPage      int
	likesEnabled bool
	requireAuth  bool
}

// NewService constructs a post service with the required dependencies.
func NewService(posts PostRepository, likes LikeRepository, opts ...ServiceOption) Service {
	s := &service{
		posts:        posts,
		likes:        likes,
		now:          time.Now,
		logger:       logging.NoOp(),
		perPage:      DefaultPerPage,
		likesEnabled: true,
		requireAuth:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Get(ctx context.Context, slug string) (*interfaces.Post, error) {
	record, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toInterface(record), nil
}

func (s *service) List(ctx context.Context, opts ListOptions) (*interfaces.PostPage, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = s.perPage
	}
	criteria := ListCriteria{
		Limit:         perPage + 1,
		PublishedOnly: opts.PublishedOnly,
	}
	if after := strings.TrimSpace(opts.After); after != "" {
		anchor, err := s.lookup(ctx, after)
		if err != nil {
			return nil, err
		}
		criteria.After = &Cursor{Date: anchor.Date, Slug: anchor.Slug}
	} else if opts.Page > 1 {
		criteria.Offset = (opts.Page - 1) * perPage
	}

	records, err := s.posts.List(ctx, criteria)
	if err != nil {
		return nil, err
	}
	page := &interfaces.PostPage{Posts: make([]*interfaces.Post, 0, perPage)}
	if len(records) > perPage {
		page.HasMore = true
		records = records[:perPage]
	}
	for _, rec := range records {
		page.Posts = append(page.Posts, toInterface(rec))
	}
	if n := len(page.Posts); n > 0 {
		page.Cursor = page.Posts[n-1].Slug
	}
	return page, nil
}

func (s *service) Create(ctx context.Context, session *interfaces.Session, input interfaces.PostInput) (*interfaces.Post, error) {
	if err := s.authorize(session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = markdown.GenerateSlug(input.Title)
	}
	if slug == "" {
		return nil, ErrSlugRequired
	}

	if _, err := s.posts.GetBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugExists, slug)
	} else if !isNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	record := &Post{
		ID:           identity.PostUUID(slug),
		Slug:         slug,
		CommentCount: max(input.CommentCount, 0),
		LikeCount:    max(input.LikeCount, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	record.apply(input)
	s.normalize(record)
	if err := validation.ValidatePost(record.input()); err != nil {
		return nil, err
	}

	created, err := s.posts.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("posts.created", "slug", slug)
	return toInterface(created), nil
}

func (s *service) Update(ctx context.Context, session *interfaces.Session, slug string, input interfaces.PostInput) (*interfaces.Post, error) {
	if err := s.authorize(session); err != nil {
		return nil, err
	}
	record, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	record.apply(input)
	record.UpdatedAt = s.now().UTC()
	s.normalize(record)
	if err := validation.ValidatePost(record.input()); err != nil {
		return nil, err
	}

	updated, err := s.posts.Update(ctx, record)
	if err != nil {
		return nil, s.mapNotFound(err, slug)
	}
	s.logger.Info("posts.updated", "slug", record.Slug)
	return toInterface(updated), nil
}

func (s *service) Delete(ctx context.Context, session *interfaces.Session, slug string) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	record, err := s.lookup(ctx, slug)
	if err != nil {
		return err
	}
	if s.likes != nil {
		if err := s.likes.DeleteByPost(ctx, record.ID); err != nil {
			return err
		}
	}
	if err := s.posts.Delete(ctx, record.ID); err != nil {
		return s.mapNotFound(err, slug)
	}
	s.logger.Info("posts.deleted", "slug", record.Slug)
	return nil
}

func (s *service) Like(ctx context.Context, session *interfaces.Session, slug string) (bool, error) {
	record, err := s.likeTarget(ctx, session, slug)
	if err != nil {
		return false, err
	}
	added, err := s.likes.Add(ctx, &Like{
		ID:        identity.PostLikeUUID(record.ID, session.UserID),
		PostID:    record.ID,
		UserID:    session.UserID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return false, s.mapNotFound(err, slug)
	}
	if added {
		s.logger.Debug("posts.liked", "slug", record.Slug, "user", session.UserID)
	}
	return added, nil
}

func (s *service) Unlike(ctx context.Context, session *interfaces.Session, slug string) (bool, error) {
	record, err := s.likeTarget(ctx, session, slug)
	if err != nil {
		return false, err
	}
	removed, err := s.likes.Remove(ctx, record.ID, session.UserID)
	if err != nil {
		return false, s.mapNotFound(err, slug)
	}
	if removed {
		s.logger.Debug("posts.unliked", "slug", record.Slug, "user", session.UserID)
	}
	return removed, nil
}

// HasLiked is false for anonymous sessions.
func (s *service) HasLiked(ctx context.Context, session *interfaces.Session, slug string) (bool, error) {
	if !session.Authenticated() || s.likes == nil {
		return false, nil
	}
	record, err := s.lookup(ctx, slug)
	if err != nil {
		return false, err
	}
	return s.likes.Exists(ctx, record.ID, session.UserID)
}

// AdjustCommentCount moves the comment counter of the post by delta.
func (s *service) AdjustCommentCount(ctx context.Context, slug string, delta int) error {
	record, err := s.lookup(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.posts.AdjustCounter(ctx, record.ID, CounterComments, delta); err != nil {
		return s.mapNotFound(err, slug)
	}
	return nil
}

func (s *service) likeTarget(ctx context.Context, session *interfaces.Session, slug string) (*Post, error) {
	if !s.likesEnabled || s.likes == nil {
		return nil, ErrLikesDisabled
	}
	// A like belongs to a user, so it needs one whatever requireAuth says.
	if !session.Authenticated() {
		return nil, ErrAuthRequired
	}
	return s.lookup(ctx, slug)
}

func (s *service) authorize(session *interfaces.Session) error {
	if s.requireAuth && !session.Authenticated() {
		return ErrAuthRequired
	}
	return nil
}

func (s *service) lookup(ctx context.Context, slug string) (*Post, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrSlugRequired
	}
	record, err := s.posts.GetBySlug(ctx, trimmed)
	if err != nil {
		return nil, s.mapNotFound(err, trimmed)
	}
	return record, nil
}

func (s *service) normalize(record *Post) {
	record.Title = strings.TrimSpace(record.Title)
	if record.Tags == nil {
		record.Tags = []string{}
	}
	if strings.TrimSpace(record.Date) == "" {
		record.Date = markdown.Today(s.now)
	}
}

func (s *service) mapNotFound(err error, slug string) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", ErrPostNotFound, slug)
	}
	return err
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
