package posts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/google/uuid"
)

// MemoryStore keeps posts and likes in memory. It implements both
// PostRepository and LikeRepository so like counters stay consistent.
type MemoryStore struct {
	mu        sync.RWMutex
	posts     map[uuid.UUID]*Post
	slugIndex map[string]uuid.UUID
	likes     map[uuid.UUID]*Like
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:     make(map[uuid.UUID]*Post),
		slugIndex: make(map[string]uuid.UUID),
		likes:     make(map[uuid.UUID]*Like),
	}
}

// Create inserts the supplied post.
func (m *MemoryStore) Create(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slugIndex[record.Slug]; ok {
		return nil, fmt.Errorf("post %q: %w", record.Slug, ErrSlugExists)
	}
	if existing, ok := m.posts[record.ID]; ok {
		return nil, fmt.Errorf("post %q: id taken by %q: %w", record.Slug, existing.Slug, ErrSlugExists)
	}
	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

// GetBySlug retrieves a post by slug, returning NotFoundError when absent.
func (m *MemoryStore) GetBySlug(_ context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(m.posts[id]), nil
}

// List returns the window of posts selected by criteria.
func (m *MemoryStore) List(_ context.Context, criteria ListCriteria) ([]*Post, error) {
	m.mu.RLock()
	all := make([]*Post, 0, len(m.posts))
	for _, rec := range m.posts {
		if criteria.PublishedOnly && !rec.Published {
			continue
		}
		if !criteria.After.before(rec) {
			continue
		}
		all = append(all, clonePost(rec))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].Slug < all[j].Slug
	})

	if criteria.Offset > 0 {
		if criteria.Offset >= len(all) {
			return []*Post{}, nil
		}
		all = all[criteria.Offset:]
	}
	if criteria.Limit > 0 && len(all) > criteria.Limit {
		all = all[:criteria.Limit]
	}
	return all, nil
}

// Update replaces the stored post with the same id.
func (m *MemoryStore) Update(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "post", Key: record.Slug}
	}
	copied := clonePost(record)
	m.posts[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return clonePost(copied), nil
}

// Delete removes the post and its likes.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.slugIndex, rec.Slug)
	delete(m.posts, id)
	m.deleteLikesLocked(id)
	return nil
}

// AdjustCounter adds delta to the named counter.
func (m *MemoryStore) AdjustCounter(_ context.Context, id uuid.UUID, counter Counter, delta int) error {
	if !counter.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	adjustLocked(rec, counter, delta)
	return nil
}

// Exists reports whether userID liked the post.
func (m *MemoryStore) Exists(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.likes[identity.PostLikeUUID(postID, userID)]
	return ok, nil
}

// Add stores the like and bumps the post like counter.
func (m *MemoryStore) Add(_ context.Context, like *Like) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.posts[like.PostID]
	if !ok {
		return false, &NotFoundError{Resource: "post", Key: like.PostID.String()}
	}
	if _, exists := m.likes[like.ID]; exists {
		return false, nil
	}
	copied := *like
	m.likes[like.ID] = &copied
	adjustLocked(rec, CounterLikes, 1)
	return true, nil
}

// Remove deletes the like and lowers the post like counter.
func (m *MemoryStore) Remove(_ context.Context, postID uuid.UUID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := identity.PostLikeUUID(postID, userID)
	if _, exists := m.likes[id]; !exists {
		return false, nil
	}
	delete(m.likes, id)
	if rec, ok := m.posts[postID]; ok {
		adjustLocked(rec, CounterLikes, -1)
	}
	return true, nil
}

// DeleteByPost drops every like of the post.
func (m *MemoryStore) DeleteByPost(_ context.Context, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLikesLocked(postID)
	return nil
}

func (m *MemoryStore) deleteLikesLocked(postID uuid.UUID) {
	for id, like := range m.likes {
		if like.PostID == postID {
			delete(m.likes, id)
		}
	}
}

func adjustLocked(rec *Post, counter Counter, delta int) {
	switch counter {
	case CounterLikes:
		rec.LikeCount += delta
	case CounterComments:
		rec.CommentCount += delta
	}
}
