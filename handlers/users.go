package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalpress/vitalpress-backend/internal/users"
	"github.com/vitalpress/vitalpress-backend/pkg/logger"
	"github.com/vitalpress/vitalpress-backend/pkg/middleware"
)

// UserHandler exposes the caller's own profile. Hitting it keeps the users
// collection in sync with the identity provider, which is where comment
// display names come from.
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(r *gin.Engine, ver middleware.Verifier) {
	r.GET("/api/v1/me", middleware.ActorMiddleware(ver), h.Me)
}

// Me upserts the verified token identity and returns the stored profile.
func (h *UserHandler) Me(c *gin.Context) {
	v, ok := c.Get("claims")
	claims, _ := v.(map[string]interface{})
	if !ok || claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	u, err := h.svc.UpsertFromClaims(c.Request.Context(), claims)
	if err != nil {
		logger.Errorf("user upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token carries no subject"})
		return
	}
	c.JSON(http.StatusOK, u)
}
