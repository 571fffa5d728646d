package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuth guards routes with HTTP Basic authentication. The stored
// password is a bcrypt hash, never the plaintext. An empty username
// disables the guard.
func BasicAuth(username, passwordHash string) gin.HandlerFunc {
	if username == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passMatch := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) == nil
		if !userMatch || !passMatch {
			challenge(c)
			return
		}
		c.Next()
	}
}

func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="restricted"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": "Authentication required",
		},
	})
}
