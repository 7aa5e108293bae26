package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewCommentRepository builds the generic bun repository for comments.
func NewCommentRepository(db *bun.DB) repository.Repository[*Comment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *Comment) string {
			return c.ID.String()
		},
	})
}

// BunCommentRepository implements CommentRepository.
type BunCommentRepository struct {
	db   *bun.DB
	repo repository.Repository[*Comment]
}

// NewBunCommentRepository creates a Bun-backed comment repository.
func NewBunCommentRepository(db *bun.DB) *BunCommentRepository {
	return &BunCommentRepository{db: db, repo: NewCommentRepository(db)}
}

func (r *BunCommentRepository) Create(ctx context.Context, record *Comment) (*Comment, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("comment repository error: %w", err)
	}
	return created, nil
}

func (r *BunCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "comment", id.String())
	}
	return record, nil
}

func (r *BunCommentRepository) ListTopLevel(ctx context.Context, postID string) ([]*Comment, error) {
	records := []*Comment{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.post_id = ?", postID).
		Where("?TableAlias.parent_id IS NULL").
		OrderExpr("?TableAlias.created_at DESC").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("comment repository error: %w", err)
	}
	return records, nil
}

func (r *BunCommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID) ([]*Comment, error) {
	records := []*Comment{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.parent_id = ?", parentID).
		OrderExpr("?TableAlias.created_at ASC").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("comment repository error: %w", err)
	}
	return records, nil
}

func (r *BunCommentRepository) UpdateContent(ctx context.Context, record *Comment) (*Comment, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("content", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "comment", record.ID.String())
	}
	return updated, nil
}

func (r *BunCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Comment{ID: id}); err != nil {
		return mapRepositoryError(err, "comment", id.String())
	}
	return nil
}

func (r *BunCommentRepository) AdjustCounter(ctx context.Context, id uuid.UUID, counter Counter, delta int) error {
	if !counter.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	return adjustCounter(ctx, r.db, id, counter, delta)
}

// BunReactionRepository implements ReactionRepository. A reaction change
// and its counters commit in one transaction.
type BunReactionRepository struct {
	db *bun.DB
}

// NewBunReactionRepository creates a Bun-backed reaction repository.
func NewBunReactionRepository(db *bun.DB) *BunReactionRepository {
	return &BunReactionRepository{db: db}
}

func (r *BunReactionRepository) Get(ctx context.Context, commentID uuid.UUID, userID string) (Kind, error) {
	return findReaction(ctx, r.db, commentID, userID)
}

func (r *BunReactionRepository) Set(ctx context.Context, reaction *Reaction, next Kind) (Kind, error) {
	previous := KindNone
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		previous, err = findReaction(ctx, tx, reaction.CommentID, reaction.UserID)
		if err != nil {
			return err
		}
		if previous == next {
			return nil
		}
		if counter, ok := counterFor(previous); ok {
			if _, err := tx.NewDelete().
				Model((*Reaction)(nil)).
				Where("?TableAlias.comment_id = ?", reaction.CommentID).
				Where("?TableAlias.user_id = ?", reaction.UserID).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
			if err := adjustCounter(ctx, tx, reaction.CommentID, counter, -1); err != nil {
				return err
			}
		}
		if counter, ok := counterFor(next); ok {
			record := *reaction
			record.IsLike = next == KindLike
			if _, err := tx.NewInsert().Model(&record).Exec(ctx); err != nil {
				return fmt.Errorf("insert reaction: %w", err)
			}
			if err := adjustCounter(ctx, tx, reaction.CommentID, counter, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return KindNone, err
	}
	return previous, nil
}

func (r *BunReactionRepository) DeleteByComment(ctx context.Context, commentID uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*Reaction)(nil)).
		Where("?TableAlias.comment_id = ?", commentID).
		Exec(ctx); err != nil {
		return fmt.Errorf("reaction repository error: %w", err)
	}
	return nil
}

func findReaction(ctx context.Context, db bun.IDB, commentID uuid.UUID, userID string) (Kind, error) {
	var reaction Reaction
	err := db.NewSelect().
		Model(&reaction).
		Where("?TableAlias.comment_id = ?", commentID).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return KindNone, nil
	}
	if err != nil {
		return KindNone, fmt.Errorf("lookup reaction: %w", err)
	}
	return reaction.kind(), nil
}

func adjustCounter(ctx context.Context, db bun.IDB, id uuid.UUID, counter Counter, delta int) error {
	column := bun.Ident(string(counter))
	res, err := db.NewUpdate().
		Table("blog_comments").
		Set("? = ? + ?", column, column, delta).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", counter, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Resource: "comment", Key: id.String()}
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
