package middleware

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/models"
)

// ProfileResolver loads the profile behind a session user id. A nil profile
// means the session does not identify an active user.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, userID string) (*models.CurrentUser, error)
}

type identity struct {
	once sync.Once
	load func() (*models.CurrentUser, error)
	user *models.CurrentUser
	err  error
}

func (i *identity) get() (*models.CurrentUser, error) {
	i.once.Do(func() {
		i.user, i.err = i.load()
	})
	return i.user, i.err
}

// Identity installs a per-request lazy profile lookup. The store is queried
// at most once per request, on the first CurrentUser call.
func Identity(resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := &identity{load: func() (*models.CurrentUser, error) {
			userID, ok := SessionUserID(c)
			if !ok {
				return nil, nil
			}
			return resolver.ResolveProfile(c.Request.Context(), userID)
		}}
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

// CurrentUser returns the caller's profile, or nil when the request is
// anonymous.
func CurrentUser(c *gin.Context) (*models.CurrentUser, error) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil, nil
	}
	id, ok := v.(*identity)
	if !ok {
		return nil, nil
	}
	return id.get()
}
