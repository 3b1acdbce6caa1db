package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
)

// MemoryRepo is an in-process Repository used for unit tests and for running
// the service without a MongoDB instance. It mirrors the Mongo repo's
// semantics, including the read-your-write view counter and the
// one-like-per-user guarantee.
type MemoryRepo struct {
	mu    sync.RWMutex
	seq   int64
	store map[string]*blog.Blog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*blog.Blog)}
}

func clone(b *blog.Blog) *blog.Blog {
	c := *b
	c.Tags = append([]string(nil), b.Tags...)
	c.Likes = append([]blog.Like(nil), b.Likes...)
	c.Comments = append([]blog.Comment(nil), b.Comments...)
	return &c
}

func (m *MemoryRepo) Insert(ctx context.Context, b *blog.Blog) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		m.seq++
		b.ID = fmt.Sprintf("blog_%d_%d", time.Now().UnixNano(), m.seq)
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.store[b.ID] = clone(b)
	return b.ID, nil
}

func (m *MemoryRepo) FindByID(ctx context.Context, id string) (*blog.Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[id]; ok {
		return clone(b), nil
	}
	return nil, ErrNotFound
}

func matches(b *blog.Blog, q blog.ListQuery) bool {
	if q.Category != "" && b.Category != q.Category {
		return false
	}
	if q.AuthorID != "" && b.AuthorID != q.AuthorID {
		return false
	}
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if q.Approved != nil && b.Approved != *q.Approved {
		return false
	}
	if q.Search != "" {
		s := strings.ToLower(q.Search)
		hit := strings.Contains(strings.ToLower(b.Title), s) ||
			strings.Contains(strings.ToLower(b.Body), s)
		for _, tag := range b.Tags {
			hit = hit || strings.Contains(strings.ToLower(tag), s)
		}
		if !hit {
			return false
		}
	}
	return true
}

func (m *MemoryRepo) matchAll(q blog.ListQuery) []*blog.Blog {
	out := []*blog.Blog{}
	for _, b := range m.store {
		if matches(b, q) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Featured && out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *MemoryRepo) Find(ctx context.Context, q blog.ListQuery) ([]*blog.Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.matchAll(q)
	if q.Skip >= int64(len(all)) {
		return []*blog.Blog{}, nil
	}
	all = all[q.Skip:]
	if q.Limit > 0 && int64(len(all)) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

func (m *MemoryRepo) Count(ctx context.Context, q blog.ListQuery) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := int64(0)
	for _, b := range m.store {
		if matches(b, q) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, set map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range set {
		switch k {
		case "title":
			b.Title = v.(string)
		case "summary":
			b.Summary = v.(string)
		case "body":
			b.Body = v.(string)
		case "category":
			b.Category = v.(string)
		case "tags":
			b.Tags = append([]string(nil), v.([]string)...)
		case "featuredImage":
			b.FeaturedImage = v.(string)
		case "status":
			b.Status = v.(blog.Status)
		case "approved":
			b.Approved = v.(bool)
		case "review":
			b.Review = v.(blog.Review)
		case "updatedAt":
			b.UpdatedAt = v.(time.Time)
		default:
			return fmt.Errorf("memory repo: unsupported update field %q", k)
		}
	}
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) IncViews(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return 0, ErrNotFound
	}
	b.Views++
	return b.Views, nil
}

func (m *MemoryRepo) AddLike(ctx context.Context, id string, l blog.Like) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.LikedBy(l.UserID) {
		return false, nil
	}
	b.Likes = append(b.Likes, l)
	return true, nil
}

func (m *MemoryRepo) RemoveLike(ctx context.Context, id string, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return false, ErrNotFound
	}
	for i, l := range b.Likes {
		if l.UserID == userID {
			b.Likes = append(b.Likes[:i], b.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepo) AddComment(ctx context.Context, id string, c blog.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	b.Comments = append(b.Comments, c)
	return nil
}

func (m *MemoryRepo) RemoveComment(ctx context.Context, id string, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for i, c := range b.Comments {
		if c.ID == commentID {
			b.Comments = append(b.Comments[:i], b.Comments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
