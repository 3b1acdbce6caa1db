package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpress/vitalpress-backend/internal/models"
	"github.com/vitalpress/vitalpress-backend/internal/users"
)

type fakeUserRepo struct {
	lastUpsert *models.User
}

func (f *fakeUserRepo) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	f.lastUpsert = u
	ret := *u
	ret.ID = "stored-id"
	return &ret, nil
}

func (f *fakeUserRepo) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return nil, nil
}

func TestMe_UpsertsVerifiedIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeUserRepo{}
	r := gin.New()
	NewUserHandler(users.NewService(repo)).Register(r, fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/me", "doctor-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "doc1", u.Sub)
	assert.Equal(t, "doctor", u.Role)
	assert.Equal(t, "stored-id", u.ID)

	require.NotNil(t, repo.lastUpsert)
	assert.Equal(t, "doc1", repo.lastUpsert.Sub)
	assert.Equal(t, "doctor", repo.lastUpsert.Role)
}

func TestMe_RequiresAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewUserHandler(users.NewService(&fakeUserRepo{})).Register(r, fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
