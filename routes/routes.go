package routes

import (
	"net/http"
	"time"

	"github.com/Emmanuel1255/tok-backend/config"
	"github.com/Emmanuel1255/tok-backend/handlers"
	"github.com/Emmanuel1255/tok-backend/middleware"
	"github.com/Emmanuel1255/tok-backend/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	handlers.Init(cfg)
	middleware.SetUploadDir(cfg.UploadDir)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded images are served straight off disk
	router.Static("/uploads", cfg.UploadDir)

	router.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"message":   "API is running",
			"timestamp": time.Now(),
		})
	})

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware())

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		protected.GET("/me", handlers.GetMe)
		protected.PUT("/updatedetails", middleware.Upload("avatar", "avatars"), handlers.UpdateDetails)
		protected.PUT("/updatepassword", handlers.UpdatePassword)
		protected.PUT("/updateinterests", handlers.UpdateInterests)
	}

	users := api.Group("/users")
	{
		users.GET("/profile/:username", handlers.GetUserProfile)

		protected := users.Group("")
		protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		protected.GET("/stats", handlers.GetUserStats)
		protected.GET("/activities", handlers.GetUserActivities)
		protected.DELETE("/activities", handlers.ClearActivities)
		protected.PUT("/profile/update", middleware.Upload("avatar", "avatars"), handlers.UpdateProfile)
		protected.POST("/interests", handlers.SaveInterests)

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.GET("", handlers.GetUsers)
		admin.GET("/:id", handlers.GetUser)
		admin.PUT("/:id", handlers.UpdateUser)
		admin.DELETE("/:id", handlers.DeleteUser)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", handlers.GetPosts)
		posts.GET("/:id", handlers.GetPost)

		protected := posts.Group("")
		protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		protected.POST("", middleware.Upload("featuredImage", "posts"), handlers.CreatePost)
		protected.PUT("/:id", middleware.Upload("featuredImage", "posts"), handlers.UpdatePost)
		protected.DELETE("/:id", handlers.DeletePost)
		protected.PUT("/:id/like", handlers.LikePost)
		protected.POST("/:id/comments", handlers.CommentOnPost)
		protected.PUT("/:id/comments/:commentId", handlers.EditComment)
		protected.DELETE("/:id/comments/:commentId", handlers.DeleteComment)
		protected.GET("/me/posts", handlers.GetMyPosts)
	}

	stats := api.Group("/stats")
	{
		stats.GET("", handlers.GetStats)
		stats.PUT("/countries",
			middleware.JWTAuthMiddleware(cfg.JWTSecret),
			middleware.RequireRole(models.RoleAdmin),
			handlers.UpdateCountriesReached)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "API endpoint not found",
		})
	})

	return router
}
