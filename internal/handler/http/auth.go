// Package http holds the gin page and form handlers.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"feedchat/internal/service"
	"feedchat/internal/session"
)

// AuthHandler serves the register/login/logout pages and forms.
type AuthHandler struct {
	authService   *service.AuthService
	codec         *session.Codec
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler. secureCookies should be true in
// production so the session cookie is only sent over TLS.
func NewAuthHandler(authService *service.AuthService, codec *session.Codec, secureCookies bool) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	if codec == nil {
		panic("session codec cannot be nil for AuthHandler")
	}
	return &AuthHandler{authService: authService, codec: codec, secureCookies: secureCookies}
}

// credentialsForm is the registration form shape. The length bounds are
// conservative defaults.
type credentialsForm struct {
	Username string `form:"username" binding:"required,min=3,max=50"`
	Password string `form:"password" binding:"required,min=6,max=128"`
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// Register handles the registration form. A taken username gets a plain
// user-visible error string, not a redirect.
func (h *AuthHandler) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		logrus.WithError(err).Warn("Handler.Register: invalid form input")
		c.String(http.StatusBadRequest, "Invalid username or password format!")
		return
	}

	_, err := h.authService.Register(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			c.String(http.StatusOK, "Username already exists!")
			return
		}
		logrus.WithError(err).WithField("username", form.Username).Error("Handler.Register: internal error")
		c.String(http.StatusInternalServerError, "Registration failed due to server error")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// loginForm accepts anything non-empty so unknown users get the same
// invalid-credentials answer as wrong passwords.
type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// Login handles the login form. On success it sets the session cookie and
// redirects home; on any credential failure it returns one uniform error
// string without distinguishing unknown user from wrong password.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusOK, "Invalid credentials!")
		return
	}

	ok, err := h.authService.Verify(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		logrus.WithError(err).WithField("username", form.Username).Error("Handler.Login: internal error")
		c.String(http.StatusInternalServerError, "Login failed due to server error")
		return
	}
	if !ok {
		c.String(http.StatusOK, "Invalid credentials!")
		return
	}

	token, err := h.codec.Issue(form.Username)
	if err != nil {
		logrus.WithError(err).Error("Handler.Login: failed to issue session token")
		c.String(http.StatusInternalServerError, "Login failed due to server error")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.codec.TTL().Seconds()), "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie and redirects to login. Idempotent; works
// the same with or without an active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, "/login")
}
