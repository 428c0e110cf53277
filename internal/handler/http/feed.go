package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"feedchat/internal/middleware"
	"feedchat/internal/service"
)

// FeedHandler serves the home feed and post creation.
type FeedHandler struct {
	feedService *service.FeedService
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	if feedService == nil {
		panic("FeedService cannot be nil for FeedHandler")
	}
	return &FeedHandler{feedService: feedService}
}

// Home renders the full feed, most recent post first. The route is guarded by
// RequireSession, so the username is always present here.
func (h *FeedHandler) Home(c *gin.Context) {
	username := middleware.CurrentUsername(c)
	posts, err := h.feedService.ListPosts(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Handler.Home: failed to load feed")
		c.String(http.StatusInternalServerError, "Failed to load feed")
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Username": username,
		"Posts":    posts,
	})
}

type postForm struct {
	Content string `form:"content" binding:"required"`
}

// CreatePost stores a new post authored by the session's username and
// redirects back to the feed.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		// Empty content just bounces back to the feed.
		c.Redirect(http.StatusFound, "/")
		return
	}
	username := middleware.CurrentUsername(c)
	if _, err := h.feedService.CreatePost(c.Request.Context(), username, form.Content); err != nil {
		logrus.WithError(err).WithField("username", username).Error("Handler.CreatePost: failed to create post")
		c.String(http.StatusInternalServerError, "Failed to create post")
		return
	}
	c.Redirect(http.StatusFound, "/")
}
