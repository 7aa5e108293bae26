package posts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	postNamespace = "post"
	maxListLimit  = 1000
)

// NewPostRepository builds the generic bun repository for posts, keyed by slug.
func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.Slug
		},
	})
}

// BunPostRepository implements PostRepository with optional caching.
type BunPostRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Post]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunPostRepository creates a post repository without caching.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache creates a post repository whose single-post
// reads go through the cache service. Every write clears the post namespace.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = postNamespace + cache.KeySeparator
	}
	return &BunPostRepository{
		db:           db,
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunPostRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return record, nil
}

// List reads straight from the database; windows are not cached.
func (r *BunPostRepository) List(ctx context.Context, criteria ListCriteria) ([]*Post, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = maxListLimit
	}
	records := []*Post{}
	q := r.db.NewSelect().Model(&records)
	if criteria.PublishedOnly {
		q = q.Where("?TableAlias.published = ?", true)
	}
	if after := criteria.After; after != nil {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.post_date < ?", after.Date).
				WhereOr("?TableAlias.post_date = ? AND ?TableAlias.slug > ?", after.Date, after.Slug)
		})
	}
	err := q.OrderExpr("?TableAlias.post_date DESC").
		OrderExpr("?TableAlias.slug ASC").
		Limit(limit).
		Offset(max(criteria.Offset, 0)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return records, nil
}

func (r *BunPostRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"content",
			"excerpt",
			"author",
			"post_date",
			"image_url",
			"image_hint",
			"published",
			"tags",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", record.Slug)
	}
	return updated, r.InvalidateCache(ctx)
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Post{ID: id}); err != nil {
		return mapRepositoryError(err, "post", id.String())
	}
	return r.InvalidateCache(ctx)
}

func (r *BunPostRepository) AdjustCounter(ctx context.Context, id uuid.UUID, counter Counter, delta int) error {
	if !counter.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	if err := adjustCounter(ctx, r.db, id, counter, delta); err != nil {
		return err
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops every cached post read.
func (r *BunPostRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunLikeRepository implements LikeRepository. Like rows and the post
// counter change in one transaction.
type BunLikeRepository struct {
	db    *bun.DB
	posts *BunPostRepository
}

// NewBunLikeRepository creates a like repository. posts, when set, has its
// cache cleared after every counter change.
func NewBunLikeRepository(db *bun.DB, posts *BunPostRepository) *BunLikeRepository {
	return &BunLikeRepository{db: db, posts: posts}
}

func (r *BunLikeRepository) Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Like)(nil)).
		Where("?TableAlias.post_id = ?", postID).
		Where("?TableAlias.user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("like repository error: %w", err)
	}
	return exists, nil
}

func (r *BunLikeRepository) Add(ctx context.Context, like *Like) (bool, error) {
	added := false
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Like)(nil)).
			Where("?TableAlias.id = ?", like.ID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("lookup like: %w", err)
		}
		if exists {
			return nil
		}
		if _, err := tx.NewInsert().Model(like).Exec(ctx); err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if err := adjustCounter(ctx, tx, like.PostID, CounterLikes, 1); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, r.invalidatePosts(ctx, added)
}

func (r *BunLikeRepository) Remove(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	removed := false
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*Like)(nil)).
			Where("?TableAlias.post_id = ?", postID).
			Where("?TableAlias.user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return nil
		}
		if err := adjustCounter(ctx, tx, postID, CounterLikes, -1); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, r.invalidatePosts(ctx, removed)
}

func (r *BunLikeRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*Like)(nil)).
		Where("?TableAlias.post_id = ?", postID).
		Exec(ctx); err != nil {
		return fmt.Errorf("like repository error: %w", err)
	}
	return nil
}

func (r *BunLikeRepository) invalidatePosts(ctx context.Context, changed bool) error {
	if !changed || r.posts == nil {
		return nil
	}
	return r.posts.InvalidateCache(ctx)
}

func adjustCounter(ctx context.Context, db bun.IDB, id uuid.UUID, counter Counter, delta int) error {
	column := bun.Ident(string(counter))
	res, err := db.NewUpdate().
		Table("blog_posts").
		Set("? = ? + ?", column, column, delta).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", counter, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
