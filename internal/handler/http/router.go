package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/handler/http/middleware"
	"github.com/uiineed/todo-service/internal/infrastructure/security"
	"github.com/uiineed/todo-service/internal/service"
)

// SetupRouter composes the middleware chain and routes. Public routes run
// OptionalAuth so a present token is still validated (and failures logged);
// protected routes run RequireAuth.
func SetupRouter(
	auth *service.AuthService,
	todos *service.TodoService,
	categories *service.CategoryService,
	tokens *security.JWTService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS())

	authHandler := NewAuthHandler(auth, logger)
	todoHandler := NewTodoHandler(todos, logger)
	categoryHandler := NewCategoryHandler(categories, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		public := api.Group("/auth")
		public.Use(middleware.OptionalAuth(tokens, logger))
		{
			public.GET("/qrcode", authHandler.GetLoginQrCode)
			public.GET("/wechat/callback", authHandler.WeChatCallback)
			public.POST("/refresh", authHandler.RefreshToken)
			public.POST("/logout", authHandler.Logout)
		}

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(tokens, logger))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.GET("/todos", todoHandler.List)
			protected.POST("/todos", todoHandler.Create)
			protected.GET("/todos/trash", todoHandler.Trash)
			protected.DELETE("/todos/trash", todoHandler.EmptyTrash)
			protected.POST("/todos/batch", todoHandler.Batch)
			protected.GET("/todos/:id", todoHandler.Get)
			protected.PUT("/todos/:id", todoHandler.Update)
			protected.DELETE("/todos/:id", todoHandler.Delete)
			protected.PUT("/todos/:id/complete", todoHandler.Complete)
			protected.PUT("/todos/:id/uncomplete", todoHandler.Uncomplete)
			protected.PUT("/todos/:id/restore", todoHandler.Restore)

			protected.GET("/categories", categoryHandler.List)
			protected.POST("/categories", categoryHandler.Create)
			protected.PUT("/categories/:id", categoryHandler.Update)
			protected.DELETE("/categories/:id", categoryHandler.Delete)
		}
	}

	return router
}
