package repository

import (
	"context"
	"errors"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
)

var ErrNotFound = errors.New("blog not found")

// Repository is the persistence boundary for blogs. Content fields are
// written with plain field updates; counters and the like set go through
// dedicated atomic operations so concurrent requests cannot lose updates.
type Repository interface {
	Insert(ctx context.Context, b *blog.Blog) (string, error)
	FindByID(ctx context.Context, id string) (*blog.Blog, error)
	Find(ctx context.Context, q blog.ListQuery) ([]*blog.Blog, error)
	Count(ctx context.Context, q blog.ListQuery) (int64, error)
	// Update applies the given field set (bson-style keys) to one blog.
	Update(ctx context.Context, id string, set map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// IncViews atomically bumps the view counter and returns the new value,
	// so the incrementing caller reads its own write.
	IncViews(ctx context.Context, id string) (int64, error)
	// AddLike inserts l unless the user already holds a like. Reports
	// whether the like was actually added.
	AddLike(ctx context.Context, id string, l blog.Like) (bool, error)
	// RemoveLike removes the user's like if present. Reports whether a like
	// was removed.
	RemoveLike(ctx context.Context, id string, userID string) (bool, error)
	AddComment(ctx context.Context, id string, c blog.Comment) error
	RemoveComment(ctx context.Context, id string, commentID string) error
}
