package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/middleware"
	"goodsgo/internal/models"
	"goodsgo/internal/services"
)

const msgBadRequest = "リクエストを読み取れませんでした"

// actor loads the caller's profile. On failure the response is written and
// ok is false.
func actor(c *gin.Context) (user *models.CurrentUser, ok bool) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	return user, true
}

// writeAuthError answers the service's role errors and reports whether err
// was one of them.
func writeAuthError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		return false
	}
	return true
}

// actionStatus maps a task action result to its HTTP status.
func actionStatus(r models.ActionResult, success int) int {
	switch {
	case r.OK:
		return success
	case len(r.FieldErrors) > 0:
		return http.StatusUnprocessableEntity
	case services.IsTaskNotFound(r):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, models.Failed(msgBadRequest))
}

// writeBindError answers a task body that did not decode: wrongly typed
// fields become field errors, anything else is a bad request.
func writeBindError(c *gin.Context, err error, input models.TaskInput) {
	if fieldErrors, ok := services.TaskInputTypeErrors(err, input); ok {
		c.JSON(http.StatusUnprocessableEntity, models.Invalid(fieldErrors))
		return
	}
	badRequest(c)
}
