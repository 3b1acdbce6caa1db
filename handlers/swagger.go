package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the content service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>vitalpress — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the public blog endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "vitalpress-content", "version": "v0.1.0" },
  "paths": {
    "/api/v1/blogs": {
      "get": {
        "summary": "List blogs visible to the caller",
        "parameters": [
          {"name":"category","in":"query","schema":{"type":"string"}},
          {"name":"search","in":"query","schema":{"type":"string"}},
          {"name":"author","in":"query","schema":{"type":"string"}},
          {"name":"status","in":"query","description":"admin only","schema":{"type":"string"}},
          {"name":"approved","in":"query","description":"admin only","schema":{"type":"boolean"}},
          {"name":"sort","in":"query","schema":{"type":"string","enum":["newest","featured"]}},
          {"name":"page","in":"query","schema":{"type":"integer","minimum":1}},
          {"name":"limit","in":"query","schema":{"type":"integer","minimum":1,"maximum":50}}
        ],
        "responses": {"200": {"description": "blogs plus pageInfo"}}
      },
      "post": {
        "summary": "Create a blog (authenticated)",
        "requestBody": {"content": {"application/json": {"schema": {"type":"object","properties":{"title":{"type":"string"},"summary":{"type":"string"},"body":{"type":"string"},"category":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}},"featuredImage":{"type":"string"},"status":{"type":"string"}}}}}},
        "responses": {"201": {"description": "created"}, "400": {"description": "validation error"}, "403": {"description": "not signed in"}}
      }
    },
    "/api/v1/blogs/pending": {
      "get": {"summary": "Moderation queue: published-but-unapproved content (admin)", "responses": {"200": {"description": "blogs plus pageInfo"}, "403": {"description": "not an admin"}}}
    },
    "/api/v1/blogs/{id}": {
      "get": {"summary": "Fetch one blog; bumps views for non-author readers", "responses": {"200": {"description": "blog"}, "404": {"description": "absent or hidden"}}},
      "put": {"summary": "Edit content fields (author or admin)", "responses": {"200": {"description": "updated blog"}}},
      "delete": {"summary": "Delete a blog (author or admin)", "responses": {"204": {"description": "deleted"}}}
    },
    "/api/v1/blogs/{id}/approve": {"post": {"summary": "Approve content (admin)", "responses": {"200": {"description": "approved blog"}}}},
    "/api/v1/blogs/{id}/reject": {"post": {"summary": "Reject content with a reason (admin)", "responses": {"200": {"description": "rejected blog, forced back to draft"}}}},
    "/api/v1/blogs/{id}/like": {"post": {"summary": "Toggle the caller's like", "responses": {"200": {"description": "likeCount and isLiked"}}}},
    "/api/v1/blogs/{id}/comments": {"post": {"summary": "Add a comment", "responses": {"201": {"description": "created comment"}}}},
    "/api/v1/blogs/{id}/comments/{commentId}": {"delete": {"summary": "Delete a comment (comment author, blog author or admin)", "responses": {"204": {"description": "deleted"}}}},
    "/api/v1/me": {"get": {"summary": "Fetch (and sync) the caller's profile", "responses": {"200": {"description": "stored user profile"}, "401": {"description": "no verified identity"}}}}
  }
}`
