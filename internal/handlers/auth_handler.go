package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goodsgo/internal/authz"
	"goodsgo/internal/logger"
	"goodsgo/internal/middleware"
	"goodsgo/internal/models"
	"goodsgo/internal/services"
)

type AuthHandler struct {
	auth         services.AuthService
	tokens       *middleware.SessionTokens
	cookieSecure bool
	log          *logger.Logger
}

func NewAuthHandler(auth services.AuthService, tokens *middleware.SessionTokens, cookieSecure bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, cookieSecure: cookieSecure, log: log}
}

type sessionResponse struct {
	models.ActionResult
	Token string              `json:"token,omitempty"`
	User  *models.CurrentUser `json:"user,omitempty"`
}

// @Summary      Sign in
// @Description  Checks the credentials and starts a session
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "credentials"
// @Success      200    {object}  sessionResponse
// @Failure      401    {object}  models.ActionResult
// @Failure      422    {object}  models.ActionResult
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.DebugContext(c.Request.Context(), "[auth][login][bind] failed", "err", err)
		badRequest(c)
		return
	}
	result, user := h.auth.Login(c.Request.Context(), req)
	if !result.OK {
		status := http.StatusInternalServerError
		switch {
		case len(result.FieldErrors) > 0:
			status = http.StatusUnprocessableEntity
		case services.IsInvalidCredentials(result):
			status = http.StatusUnauthorized
		}
		c.JSON(status, result)
		return
	}
	h.startSession(c, http.StatusOK, user)
}

// @Summary      Sign up
// @Description  Creates a member account and starts a session
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "account"
// @Success      201       {object}  sessionResponse
// @Failure      409       {object}  models.ActionResult
// @Failure      422       {object}  models.ActionResult
// @Router       /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.DebugContext(c.Request.Context(), "[auth][register][bind] failed", "err", err)
		badRequest(c)
		return
	}
	result, user := h.auth.Register(c.Request.Context(), req)
	if !result.OK {
		status := http.StatusInternalServerError
		switch {
		case len(result.FieldErrors) > 0:
			status = http.StatusUnprocessableEntity
		case services.IsAlreadyRegistered(result):
			status = http.StatusConflict
		}
		c.JSON(status, result)
		return
	}
	h.startSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "[auth][session] sign failed", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, models.Failed("failed to issue token"))
		return
	}
	h.setSessionCookie(c, token, int(h.tokens.TTL().Seconds()))
	h.log.InfoContext(c.Request.Context(), "[auth][session] started", "user_id", user.ID, "role", user.Role.String())
	c.JSON(status, sessionResponse{
		ActionResult: models.Succeeded(),
		Token:        token,
		User: &models.CurrentUser{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookieSecure, true)
}

// @Summary      Sign out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  models.ActionResult
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, models.Succeeded())
}

// @Summary      Current profile
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  models.CurrentUser
// @Failure      401  {object}  map[string]string
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "home": authz.HomePath(user.Role)})
}
