package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

const actorKey = "actor"

// ActorMiddleware resolves the requesting actor from a Bearer token.
// Requests without an Authorization header proceed as anonymous — public
// reads must not require authentication — while a present-but-invalid token
// is rejected outright.
func ActorMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || ver == nil {
			c.Set(actorKey, blog.Actor{Role: blog.RoleAnonymous})
			c.Next()
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		c.Set(actorKey, ActorFromClaims(claims))
		c.Next()
	}
}

// ActorFromClaims maps verified token claims to an actor. Unknown or missing
// role claims degrade to reader, never to a privileged role.
func ActorFromClaims(claims map[string]interface{}) blog.Actor {
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	if sub == "" {
		return blog.Actor{Role: blog.RoleAnonymous}
	}
	role := blog.RoleReader
	switch blog.Role(roleStr) {
	case blog.RoleDoctor:
		role = blog.RoleDoctor
	case blog.RoleAdmin:
		role = blog.RoleAdmin
	}
	return blog.Actor{ID: sub, Name: name, Role: role}
}

// ActorFrom returns the actor resolved for the current request.
func ActorFrom(c *gin.Context) blog.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok2 := v.(blog.Actor); ok2 {
			return a
		}
	}
	return blog.Actor{Role: blog.RoleAnonymous}
}
