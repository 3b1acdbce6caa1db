package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
	"github.com/vitalpress/vitalpress-backend/internal/blog/repository"
	"github.com/vitalpress/vitalpress-backend/internal/blog/service"
	"github.com/vitalpress/vitalpress-backend/pkg/logger"
	"github.com/vitalpress/vitalpress-backend/pkg/middleware"
)

type fakeToken struct{ claims map[string]interface{} }

func (t fakeToken) Claims(v interface{}) error {
	b, _ := json.Marshal(t.claims)
	return json.Unmarshal(b, v)
}

// fakeVerifier resolves fixed bearer tokens to identities.
type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	switch raw {
	case "doctor-token":
		return fakeToken{map[string]interface{}{"sub": "doc1", "name": "Dr. House", "role": "doctor"}}, nil
	case "admin-token":
		return fakeToken{map[string]interface{}{"sub": "admin1", "name": "Moderator", "role": "admin"}}, nil
	case "reader-token":
		return fakeToken{map[string]interface{}{"sub": "reader1", "name": "Reader", "role": "reader"}}, nil
	}
	return nil, errors.New("unknown token")
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewBlogHandler(service.New(repository.NewMemoryRepo())).Register(r, fakeVerifier{})
	return r
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"title": "Managing Type 2 Diabetes",
	"summary": "Lifestyle and medication basics for newly diagnosed patients.",
	"body": "Type 2 diabetes management combines diet, exercise and, where needed, medication under medical supervision.",
	"category": "nutrition",
	"tags": ["diabetes", "lifestyle"],
	"status": "published"
}`

func createAs(t *testing.T, r *gin.Engine, token string) blog.Blog {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/blogs", token, createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b blog.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.NotEmpty(t, b.ID)
	return b
}

func TestCreate_RequiresAuth(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/api/v1/blogs", "", createBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a present but bogus token is a 401, not anonymous
	w = do(r, http.MethodPost, "/api/v1/blogs", "bogus", createBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreate_ValidationDetails(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/api/v1/blogs", "doctor-token", `{"title":"x","summary":"s","body":"short","category":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "title")
	assert.Contains(t, resp.Fields, "body")
	assert.Contains(t, resp.Fields, "category")
}

func TestPublicReadAndEngagementFlow(t *testing.T) {
	r := newTestRouter()
	b := createAs(t, r, "doctor-token")

	// anonymous read works and bumps views
	w := do(r, http.MethodGet, "/api/v1/blogs/"+b.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got blog.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.Views)
	assert.True(t, got.Approved)

	// reader likes it
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/like", "reader-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var like service.LikeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &like))
	assert.True(t, like.IsLiked)
	assert.Equal(t, 1, like.LikeCount)

	// and takes it back
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/like", "reader-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &like))
	assert.False(t, like.IsLiked)
	assert.Equal(t, 0, like.LikeCount)

	// anonymous likes are forbidden
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/like", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reader comments
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/comments", "reader-token", `{"content":"Great overview, thanks."}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var c blog.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "reader1", c.UserID)
	require.NotEmpty(t, c.ID)

	// blog author removes the comment
	w = do(r, http.MethodDelete, "/api/v1/blogs/"+b.ID+"/comments/"+c.ID, "doctor-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestModerationFlow(t *testing.T) {
	r := newTestRouter()
	b := createAs(t, r, "reader-token") // published but pending approval

	// hidden from the public, indistinguishable from missing
	w := do(r, http.MethodGet, "/api/v1/blogs/"+b.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// engagement on pending content is likewise a 404 for outsiders
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/like", "doctor-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the author hits the engagement precondition instead
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/like", "reader-token", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// only admins moderate
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/approve", "doctor-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/approve", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	// now public
	w = do(r, http.MethodGet, "/api/v1/blogs/"+b.ID, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// rejection needs a reason and pulls it back to draft
	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/reject", "admin-token", `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/blogs/"+b.ID+"/reject", "admin-token", `{"reason":"unsupported medical claims"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var rejected blog.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	assert.Equal(t, blog.StatusDraft, rejected.Status)
	assert.Equal(t, blog.ReviewRejected, rejected.Review.State)

	w = do(r, http.MethodGet, "/api/v1/blogs/"+b.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	r := newTestRouter()
	b := createAs(t, r, "doctor-token")

	// a stranger cannot edit
	w := do(r, http.MethodPut, "/api/v1/blogs/"+b.ID, "reader-token", `{"title":"Hijacked Title"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the author can
	w = do(r, http.MethodPut, "/api/v1/blogs/"+b.ID, "doctor-token", `{"title":"Managing Type 2 Diabetes, Revised"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated blog.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Managing Type 2 Diabetes, Revised", updated.Title)

	// a stranger cannot delete either
	w = do(r, http.MethodDelete, "/api/v1/blogs/"+b.ID, "reader-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/blogs/"+b.ID, "doctor-token", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/blogs/"+b.ID, "doctor-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_PaginationAndRoleScoping(t *testing.T) {
	r := newTestRouter()
	for i := 0; i < 3; i++ {
		createAs(t, r, "doctor-token")
	}
	createAs(t, r, "reader-token") // pending, invisible to the public

	w := do(r, http.MethodGet, "/api/v1/blogs?limit=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Blogs    []blog.Blog   `json:"blogs"`
		PageInfo blog.PageInfo `json:"pageInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Blogs, 2)
	assert.Equal(t, int64(3), resp.PageInfo.Total)
	assert.True(t, resp.PageInfo.HasNext)

	// admins can ask for the moderation backlog
	w = do(r, http.MethodGet, "/api/v1/blogs?approved=false", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.PageInfo.Total)

	// unknown category is a validation error
	w = do(r, http.MethodGet, "/api/v1/blogs?category=astrology", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// failingRepo breaks listing to exercise the internal-error path.
type failingRepo struct {
	repository.Repository
}

func (failingRepo) Count(ctx context.Context, q blog.ListQuery) (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func TestInternalErrorsAreLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewBlogHandler(service.New(failingRepo{repository.NewMemoryRepo()})).Register(r, fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/blogs", "", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// client gets the generic message only
	assert.Contains(t, w.Body.String(), "internal error")
	assert.NotContains(t, w.Body.String(), "connection reset")

	// the cause lands in the log
	assert.Contains(t, buf.String(), "connection reset by peer")
}

func TestPendingQueue(t *testing.T) {
	r := newTestRouter()
	createAs(t, r, "doctor-token") // approved on creation, not pending
	pending := createAs(t, r, "reader-token")

	// admins only
	w := do(r, http.MethodGet, "/api/v1/blogs/pending", "reader-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/blogs/pending", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Blogs    []blog.Blog   `json:"blogs"`
		PageInfo blog.PageInfo `json:"pageInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Blogs, 1)
	assert.Equal(t, pending.ID, resp.Blogs[0].ID)

	// approving drains the queue
	w = do(r, http.MethodPost, "/api/v1/blogs/"+pending.ID+"/approve", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/blogs/pending", "admin-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Blogs)
}
