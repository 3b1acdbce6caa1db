package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
	"github.com/vitalpress/vitalpress-backend/internal/blog/service"
	"github.com/vitalpress/vitalpress-backend/pkg/logger"
	"github.com/vitalpress/vitalpress-backend/pkg/metrics"
	"github.com/vitalpress/vitalpress-backend/pkg/middleware"
)

// BlogHandler maps the HTTP surface onto the content service. All policy
// (roles, visibility, lifecycle) lives in the service; here we only parse
// requests and translate error kinds to status codes.
type BlogHandler struct {
	svc *service.Service
}

func NewBlogHandler(svc *service.Service) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// Register mounts the blog routes. The actor middleware runs on every route
// so unauthenticated requests resolve as anonymous rather than being
// rejected — public reads must stay open.
func (h *BlogHandler) Register(r *gin.Engine, ver middleware.Verifier) {
	g := r.Group("/api/v1/blogs", middleware.ActorMiddleware(ver))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/pending", h.Pending)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/like", h.ToggleLike)
	g.POST("/:id/comments", h.AddComment)
	g.DELETE("/:id/comments/:commentId", h.DeleteComment)
}

func writeError(c *gin.Context, err error) {
	msg := "internal error"
	if e, ok := err.(*blog.Error); ok && e.Kind != blog.KindInternal {
		msg = e.Message
	}
	switch blog.KindOf(err) {
	case blog.KindValidation:
		body := gin.H{"error": msg}
		if e, ok := err.(*blog.Error); ok && len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case blog.KindAuthorization:
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case blog.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case blog.KindPrecondition:
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	default:
		// the cause never reaches the client, so record it here
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := middleware.ActorFrom(c)
	b, err := h.svc.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.BlogsCreated.WithLabelValues(string(actor.Role)).Inc()
	c.JSON(http.StatusCreated, b)
}

func (h *BlogHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) List(c *gin.Context) {
	f := blog.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		AuthorID: c.Query("author"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	if v := c.Query("approved"); v != "" {
		approved := v == "true"
		f.Approved = &approved
	}

	blogs, page, err := h.svc.List(c.Request.Context(), middleware.ActorFrom(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "pageInfo": page})
}

// Pending is the moderation queue: content submitted for publication that no
// admin has approved yet.
func (h *BlogHandler) Pending(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.Role != blog.RoleAdmin {
		writeError(c, blog.ErrAuthorization("only admins may view the moderation queue"))
		return
	}
	approved := false
	f := blog.ListFilter{Status: string(blog.StatusPublished), Approved: &approved}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	blogs, page, err := h.svc.List(c.Request.Context(), actor, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "pageInfo": page})
}

func (h *BlogHandler) Update(c *gin.Context) {
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlogHandler) Approve(c *gin.Context) {
	b, err := h.svc.Approve(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.BlogsModerated.WithLabelValues("approved").Inc()
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Reject(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.BlogsModerated.WithLabelValues("rejected").Inc()
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) ToggleLike(c *gin.Context) {
	res, err := h.svc.ToggleLike(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if res.IsLiked {
		metrics.EngagementEvents.WithLabelValues("like").Inc()
	} else {
		metrics.EngagementEvents.WithLabelValues("unlike").Inc()
	}
	c.JSON(http.StatusOK, res)
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EngagementEvents.WithLabelValues("comment").Inc()
	c.JSON(http.StatusCreated, comment)
}

func (h *BlogHandler) DeleteComment(c *gin.Context) {
	err := h.svc.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
