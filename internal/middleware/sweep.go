package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"feedchat/internal/service"
)

// SweepBeforeRequest runs the retention sweep before every request. Each
// request pays a full-table predicate scan; the background worker is where a
// later change would move this. A failed sweep is logged and the request
// proceeds.
func SweepBeforeRequest(retention *service.RetentionService) gin.HandlerFunc {
	if retention == nil {
		panic("RetentionService cannot be nil for SweepBeforeRequest middleware")
	}
	return func(c *gin.Context) {
		if err := retention.Sweep(c.Request.Context(), time.Now()); err != nil {
			logrus.WithError(err).Error("Pre-request retention sweep failed")
		}
		c.Next()
	}
}
