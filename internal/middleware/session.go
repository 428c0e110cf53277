// Package middleware provides the gin middleware shared by all routes.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"feedchat/internal/session"
)

// UsernameKey is the gin context key holding the authenticated username.
const UsernameKey = "username"

// OptionalSession resolves the session cookie into a username on the gin
// context when present and valid. It never rejects the request; anonymous
// clients just carry no username.
func OptionalSession(codec *session.Codec) gin.HandlerFunc {
	if codec == nil {
		panic("session codec cannot be nil for OptionalSession middleware")
	}
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(session.CookieName)
		if err == nil && tokenStr != "" {
			username, err := codec.Parse(tokenStr)
			if err == nil {
				c.Set(UsernameKey, username)
			} else {
				logrus.Debug("Session middleware: discarding invalid session token")
			}
		}
		c.Next()
	}
}

// RequireSession redirects anonymous requests to the login page. It relies on
// OptionalSession having run earlier in the chain.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUsername(c) == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUsername returns the authenticated username or "" for anonymous.
func CurrentUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
