package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/authz"
	"goodsgo/internal/middleware"
)

// Home sends the caller to the landing page of their role.
func Home(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	if user == nil {
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}
	c.Redirect(http.StatusSeeOther, authz.HomePath(user.Role))
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports whether the database answers.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
