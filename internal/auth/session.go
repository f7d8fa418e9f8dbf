// Package auth resolves the current actor from the session cookie.
// Credential storage and password policy live in the user service;
// this layer only carries identity between requests.
package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/agoraforum/agora/internal/forum"
	"github.com/agoraforum/agora/internal/models"
)

const (
	// SessionKey is the session field holding the logged-in username.
	SessionKey = "username"

	// ContextKey is the gin context key holding the resolved *models.User.
	ContextKey = "current_user"
)

// LoadUser resolves the session's username into a user record and
// stores it on the request context. Requests without a session, or
// with a stale session pointing at a removed account, proceed
// anonymously.
func LoadUser(users *forum.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, ok := session.Get(SessionKey).(string)
		if ok && username != "" {
			if user, err := users.Get(c.Request.Context(), username); err == nil {
				c.Set(ContextKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the actor resolved by LoadUser, or nil for an
// anonymous request.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SignIn binds the session to a username
func SignIn(c *gin.Context, username string) error {
	session := sessions.Default(c)
	session.Set(SessionKey, username)
	return session.Save()
}

// SignOut clears the session
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(SessionKey)
	return session.Save()
}
