package middleware

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gflcollect/boxes-backend-go/pkg/response"
)

// AdminAuth guards mutating admin endpoints with a bearer JWT signed with
// the configured secret. An empty secret disables the guard, for local and
// single-operator deployments.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SingleWriter serializes mutating requests against the shared in-memory
// state: the engine assumes one active mutator at a time.
func SingleWriter() gin.HandlerFunc {
	var mu sync.Mutex
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}
