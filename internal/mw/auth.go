package mw

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleVerifier asks the backend whether the current session is an administrator.
type RoleVerifier func(ctx context.Context) (bool, error)

// RequireAdmin re-verifies the role with the server on every request; the locally
// cached admin flag is never trusted. onError renders verification failures.
func RequireAdmin(verify RoleVerifier, onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := verify(c.Request.Context())
		if err != nil {
			onError(c, err)
			c.Abort()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "관리자 권한이 필요합니다."})
			return
		}
		c.Next()
	}
}
