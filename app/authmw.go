package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/auth"
	"github.com/goodjobguy1234/LendItApi/db"
	"github.com/goodjobguy1234/LendItApi/session"
)

// TokenHeader carries the login token on authenticated requests.
const TokenHeader = "auth-token"

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, H{
		"errors":  H{},
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

// AuthRequired resolves the auth-token header into a caller student id:
// signature check, live redis session, user still exists. The resolved id
// lands in the gin context as "userID".
func AuthRequired(tokens *auth.TokenIssuer, sessions *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			abortUnauthorized(c, "Access Denied")
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			abortUnauthorized(c, "Invalid Token")
			return
		}
		sess, err := sessions.Get(c.Request.Context(), claims.ID)
		if err != nil {
			abortUnauthorized(c, "Invalid Token")
			return
		}
		ok, err := repo.UserExists(c.Request.Context(), sess.UserID)
		if err != nil || !ok {
			_ = sessions.Delete(c.Request.Context(), claims.ID)
			abortUnauthorized(c, "Access Denied")
			return
		}
		c.Set("userID", sess.UserID)
		c.Set("sessionID", claims.ID)
		c.Next()
	}
}
