package transport

import (
	"net/http"

	"github.com/ballothub/election-backend/election"
	"github.com/ballothub/election-backend/logging"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// SessionMiddleware resolves the x-session-token header into a session and
// aborts with 401 when the token is missing or unknown.
func SessionMiddleware(sessions *election.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-session-token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		session, err := sessions.Get(token)
		if err != nil {
			logging.Log.Warnf("AUTH: unknown session token on %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the session placed by SessionMiddleware, nil outside
// of guarded routes.
func SessionFrom(c *gin.Context) *election.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := value.(*election.Session)
	return session
}

// RequireSuperAdmin gates a route group to super admin sessions.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil || session.Role != election.SessionSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "super admin access required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin admits workspace admins and super admins that entered a
// workspace through the privileged bypass.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		switch {
		case session == nil:
		case session.Role == election.SessionAdmin:
			c.Next()
			return
		case session.Role == election.SessionSuperAdmin && session.WorkspaceID != "":
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
	}
}

// RequireVoter gates the voting booth routes.
func RequireVoter() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c)
		if session == nil || session.Role != election.SessionVoter {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "voter access required"})
			return
		}
		c.Next()
	}
}
