package routes

import (
	"github.com/gin-gonic/gin"

	"goodsgo/internal/authz"
	"goodsgo/internal/handlers"
	"goodsgo/internal/middleware"
)

type Deps struct {
	Tokens   *middleware.SessionTokens
	Profiles middleware.ProfileResolver
	DB       handlers.Pinger

	Auth  *handlers.AuthHandler
	Tasks *handlers.TaskHandler
}

func SetupRoutes(r *gin.Engine, d Deps) *gin.Engine {
	// ---- public
	r.GET("/healthz", handlers.Health(d.DB))

	r.Use(middleware.AuthMiddleware(d.Tokens))
	r.Use(middleware.Identity(d.Profiles))

	r.GET("/", handlers.Home)

	api := r.Group("/api")
	{
		api.POST("/login", d.Auth.Login)
		api.POST("/register", d.Auth.Register)
		api.POST("/logout", d.Auth.Logout)
	}

	// ---- protected
	authed := api.Group("", middleware.RequireAuthenticated())
	authed.GET("/me", d.Auth.Me)

	tasks := authed.Group("/admin/tasks", middleware.RequireRoles(authz.RoleAdmin))
	{
		tasks.GET("", d.Tasks.List)
		tasks.GET("/form", d.Tasks.Form)
		tasks.GET("/export.pdf", d.Tasks.ExportPDF)
		tasks.GET("/:id", d.Tasks.Get)
		tasks.POST("", d.Tasks.Create)
		tasks.PUT("/:id", d.Tasks.Update)
		tasks.DELETE("/:id", d.Tasks.Delete)
	}
	return r
}
