package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
)

func seedBlog(t *testing.T, m *MemoryRepo, b *blog.Blog) string {
	t.Helper()
	id, err := m.Insert(context.Background(), b)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return id
}

func TestMemoryRepo_InsertAndFind(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()

	id := seedBlog(t, m, &blog.Blog{Title: "First", Status: blog.StatusDraft})
	if id == "" {
		t.Fatal("insert must assign an id")
	}

	got, err := m.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.Title != "First" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected blog: %+v", got)
	}

	// returned value is a copy; mutating it must not touch the store
	got.Title = "mutated"
	again, _ := m.FindByID(ctx, id)
	if again.Title != "First" {
		t.Fatal("FindByID must return an isolated copy")
	}

	if _, err := m.FindByID(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_UpdateFields(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	id := seedBlog(t, m, &blog.Blog{Title: "Before", Status: blog.StatusDraft})

	now := time.Now().UTC()
	err := m.Update(ctx, id, map[string]interface{}{
		"title":     "After",
		"status":    blog.StatusPublished,
		"approved":  true,
		"review":    blog.Review{State: blog.ReviewApproved, By: "admin1", At: &now},
		"updatedAt": now,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := m.FindByID(ctx, id)
	if got.Title != "After" || got.Status != blog.StatusPublished || !got.Approved {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Review.By != "admin1" {
		t.Fatalf("review not applied: %+v", got.Review)
	}

	if err := m.Update(ctx, id, map[string]interface{}{"views": 7}); err == nil {
		t.Fatal("unsupported field must be rejected")
	}
	if err := m.Update(ctx, "missing", map[string]interface{}{"title": "x"}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_FindQuery(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	approved := true

	seedBlog(t, m, &blog.Blog{Title: "Heart Basics", Category: "cardiology", AuthorID: "a1", Status: blog.StatusPublished, Approved: true, Tags: []string{"heart"}})
	seedBlog(t, m, &blog.Blog{Title: "Sleep Hygiene", Category: "mental-health", AuthorID: "a2", Status: blog.StatusPublished, Approved: true})
	seedBlog(t, m, &blog.Blog{Title: "Hidden Draft", Category: "cardiology", AuthorID: "a1", Status: blog.StatusDraft})

	q := blog.ListQuery{Status: blog.StatusPublished, Approved: &approved, Limit: 10}
	got, err := m.Find(ctx, q)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 published approved blogs, got %d", len(got))
	}
	if n, _ := m.Count(ctx, q); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	q.Category = "cardiology"
	if got, _ = m.Find(ctx, q); len(got) != 1 || got[0].Title != "Heart Basics" {
		t.Fatalf("category filter wrong: %+v", got)
	}

	q.Category = ""
	q.Search = "heart"
	if got, _ = m.Find(ctx, q); len(got) != 1 {
		t.Fatalf("search filter wrong: %+v", got)
	}

	q.Search = ""
	q.AuthorID = "a2"
	if got, _ = m.Find(ctx, q); len(got) != 1 || got[0].AuthorID != "a2" {
		t.Fatalf("author filter wrong: %+v", got)
	}

	// skip past the end yields an empty page, not an error
	q.AuthorID = ""
	q.Skip = 50
	if got, _ = m.Find(ctx, q); len(got) != 0 {
		t.Fatalf("expected empty page, got %d", len(got))
	}
}

func TestMemoryRepo_IncViewsIsReadYourWrite(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	id := seedBlog(t, m, &blog.Blog{Title: "Counted"})

	for want := int64(1); want <= 3; want++ {
		got, err := m.IncViews(ctx, id)
		if err != nil {
			t.Fatalf("inc failed: %v", err)
		}
		if got != want {
			t.Fatalf("IncViews = %d, want %d", got, want)
		}
	}
}

func TestMemoryRepo_LikesAreSetSemantics(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	id := seedBlog(t, m, &blog.Blog{Title: "Likable"})

	added, err := m.AddLike(ctx, id, blog.Like{UserID: "u1", LikedAt: time.Now()})
	if err != nil || !added {
		t.Fatalf("first like: added=%v err=%v", added, err)
	}
	added, _ = m.AddLike(ctx, id, blog.Like{UserID: "u1", LikedAt: time.Now()})
	if added {
		t.Fatal("duplicate like must be a no-op")
	}

	removed, _ := m.RemoveLike(ctx, id, "u1")
	if !removed {
		t.Fatal("expected like removed")
	}
	removed, _ = m.RemoveLike(ctx, id, "u1")
	if removed {
		t.Fatal("second removal must be a no-op")
	}
}

func TestMemoryRepo_Comments(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	id := seedBlog(t, m, &blog.Blog{Title: "Discussed"})

	if err := m.AddComment(ctx, id, blog.Comment{ID: "c1", UserID: "u1", Content: "hi"}); err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if err := m.RemoveComment(ctx, id, "c1"); err != nil {
		t.Fatalf("remove comment failed: %v", err)
	}
	if err := m.RemoveComment(ctx, id, "c1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_ConcurrentEngagement(t *testing.T) {
	m := NewMemoryRepo()
	ctx := context.Background()
	id := seedBlog(t, m, &blog.Blog{Title: "Busy"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.IncViews(ctx, id); err != nil {
				t.Errorf("inc failed: %v", err)
			}
			// same user from every goroutine: at most one like survives
			_, _ = m.AddLike(ctx, id, blog.Like{UserID: "u1", LikedAt: time.Now()})
		}()
	}
	wg.Wait()

	got, _ := m.FindByID(ctx, id)
	if got.Views != 50 {
		t.Fatalf("expected 50 views, got %d", got.Views)
	}
	if len(got.Likes) != 1 {
		t.Fatalf("expected exactly one like, got %d", len(got.Likes))
	}
}
