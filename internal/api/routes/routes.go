package routes

import (
	"ems-web/internal/api/handlers"
	"ems-web/internal/api/middleware"
	"ems-web/internal/config"
	"ems-web/internal/emsapi"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Shared collaborators
	api := emsapi.New(cfg.API)
	sessions := services.NewSessionService(cfg)
	history := services.NewHistoryService()

	// Handlers
	authHandler := handlers.NewAuthHandler(api, sessions, history, cfg)
	homeHandler := handlers.NewHomeHandler(sessions)
	userHandler := handlers.NewUserHandler(api, history)
	roleHandler := handlers.NewRoleHandler(api, history)
	adminHandler := handlers.NewAdminHandler(api, history)

	// Middleware
	middleware.InitMetrics()
	r.Use(middleware.RequestID())
	r.Use(middleware.Instrument())
	r.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))
	r.Use(middleware.CSRF(cfg.Security.AllowedOrigins))
	r.Use(middleware.ErrorHandler())

	// Public routes
	r.GET("/", homeHandler.Index)
	r.GET("/privacy", homeHandler.Privacy)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/metrics", middleware.MetricsHandler())
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "EMS web panel is running",
		})
	})

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(sessions))
	{
		protected.POST("/signout", authHandler.SignOut)
		protected.GET("/me", authHandler.Me)

		// User management routes
		users := protected.Group("/users")
		{
			users.GET("", userHandler.Index)
			users.POST("", middleware.RequireRole("Admin"), userHandler.Create)
			users.POST("/soft-delete", userHandler.SoftDelete)
			users.POST("/restore", userHandler.Restore)
			users.POST("/delete", userHandler.Delete)
			users.GET("/:id", userHandler.Details)
			users.GET("/:id/edit", userHandler.EditForm)
			users.POST("/:id/edit", userHandler.Edit)
			users.GET("/:id/roles", middleware.RequireRole("Admin"), userHandler.ManageRoles)
			users.POST("/:id/roles", middleware.RequireRole("Admin"), userHandler.UpdateRoles)
		}

		// Role and permission management routes
		roles := protected.Group("/roles", middleware.RequireRole("Admin"))
		{
			roles.GET("", roleHandler.Index)
			roles.POST("", roleHandler.Create)
			roles.GET("/manage/:userId", roleHandler.ManageUserRoles)
			roles.GET("/:id/edit", roleHandler.EditForm)
			roles.POST("/:id/edit", roleHandler.Edit)
			roles.POST("/:id/delete", roleHandler.Delete)
			roles.GET("/:id/permissions", roleHandler.Permissions)
			roles.POST("/:id/permissions", roleHandler.ReplacePermissions)
			roles.POST("/:id/permissions/add", roleHandler.AddPermission)
			roles.POST("/:id/permissions/remove", roleHandler.RemovePermission)
		}

		// Admin dashboard JSON API
		admin := protected.Group("/admin", middleware.RequireRole("Admin"))
		{
			admin.GET("", adminHandler.Index)
			admin.GET("/users", adminHandler.GetAllUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/:id", adminHandler.GetUserByID)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.PATCH("/users/:id/soft-delete", adminHandler.SoftDeleteUser)
			admin.PATCH("/users/:id/restore", adminHandler.RestoreUser)
			admin.GET("/users/:id/status", adminHandler.CheckUserStatus)
			admin.GET("/history", adminHandler.History)
		}
	}
}
