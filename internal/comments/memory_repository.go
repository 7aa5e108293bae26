package comments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/google/uuid"
)

// MemoryStore keeps comments and reactions in memory. It implements both
// CommentRepository and ReactionRepository.
type MemoryStore struct {
	mu        sync.RWMutex
	comments  map[uuid.UUID]*Comment
	reactions map[uuid.UUID]*Reaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		comments:  make(map[uuid.UUID]*Comment),
		reactions: make(map[uuid.UUID]*Reaction),
	}
}

func (m *MemoryStore) Create(_ context.Context, record *Comment) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneComment(record)
	m.comments[copied.ID] = copied
	return cloneComment(copied), nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.comments[id]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	return cloneComment(rec), nil
}

func (m *MemoryStore) ListTopLevel(_ context.Context, postID string) ([]*Comment, error) {
	out := m.filter(func(c *Comment) bool { return c.PostID == postID && !c.IsReply() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) ListReplies(_ context.Context, parentID uuid.UUID) ([]*Comment, error) {
	out := m.filter(func(c *Comment) bool { return c.ParentID == parentID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) filter(keep func(*Comment) bool) []*Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Comment{}
	for _, rec := range m.comments {
		if keep(rec) {
			out = append(out, cloneComment(rec))
		}
	}
	// Map order is random; settle ties on id.
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (m *MemoryStore) UpdateContent(_ context.Context, record *Comment) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.comments[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: record.ID.String()}
	}
	rec.Content = record.Content
	rec.UpdatedAt = record.UpdatedAt
	return cloneComment(rec), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	delete(m.comments, id)
	return nil
}

func (m *MemoryStore) AdjustCounter(_ context.Context, id uuid.UUID, counter Counter, delta int) error {
	if !counter.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.comments[id]
	if !ok {
		return &NotFoundError{Resource: "comment", Key: id.String()}
	}
	adjustLocked(rec, counter, delta)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, commentID uuid.UUID, userID string) (Kind, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reactions[identity.CommentReactionUUID(commentID, userID)].kind(), nil
}

func (m *MemoryStore) Set(_ context.Context, reaction *Reaction, next Kind) (Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.comments[reaction.CommentID]
	if !ok {
		return KindNone, &NotFoundError{Resource: "comment", Key: reaction.CommentID.String()}
	}
	previous := m.reactions[reaction.ID].kind()
	if previous == next {
		return previous, nil
	}
	if counter, ok := counterFor(previous); ok {
		adjustLocked(rec, counter, -1)
		delete(m.reactions, reaction.ID)
	}
	if counter, ok := counterFor(next); ok {
		copied := *reaction
		copied.IsLike = next == KindLike
		m.reactions[reaction.ID] = &copied
		adjustLocked(rec, counter, 1)
	}
	return previous, nil
}

func (m *MemoryStore) DeleteByComment(_ context.Context, commentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, reaction := range m.reactions {
		if reaction.CommentID == commentID {
			delete(m.reactions, id)
		}
	}
	return nil
}

func adjustLocked(rec *Comment, counter Counter, delta int) {
	switch counter {
	case CounterLikes:
		rec.LikeCount += delta
	case CounterDislikes:
		rec.DislikeCount += delta
	case CounterReplies:
		rec.ReplyCount += delta
	}
}
