package http

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/domain"
	httpH "github.com/curalink/curalink-backend/internal/http/handlers"
	httpMW "github.com/curalink/curalink-backend/internal/http/middleware"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	ConnectionHandler *httpH.ConnectionHandler
	ChatHandler       *httpH.ChatHandler
	FavoriteHandler   *httpH.FavoriteHandler
	ForumHandler      *httpH.ForumHandler
	LibraryHandler    *httpH.LibraryHandler
	AssistantHandler  *httpH.AssistantHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/oauth/google", cfg.AuthHandler.LoginWithGoogle)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateProfile)
			protected.POST("/me/role", cfg.UserHandler.SelectRole)
			protected.GET("/researchers", cfg.UserHandler.ListResearchers)
		}

		// Connections and chat are researcher-only; the role check happens
		// once here rather than inside each service.
		researcher := protected.Group("/")
		{
			if cfg.AuthMiddleware != nil {
				researcher.Use(cfg.AuthMiddleware.RequireRole(domain.RoleResearcher))
			}

			if cfg.ConnectionHandler != nil {
				researcher.GET("/connections", cfg.ConnectionHandler.List)
				researcher.POST("/connections", cfg.ConnectionHandler.Request)
				researcher.PATCH("/connections", cfg.ConnectionHandler.Respond)
			}

			if cfg.ChatHandler != nil {
				researcher.GET("/chat", cfg.ChatHandler.GetThread)
				researcher.POST("/chat", cfg.ChatHandler.Send)
				researcher.PUT("/chat", cfg.ChatHandler.ListConversations)
			}
		}

		if cfg.FavoriteHandler != nil {
			protected.GET("/favorites", cfg.FavoriteHandler.List)
			protected.POST("/favorites", cfg.FavoriteHandler.Add)
			protected.DELETE("/favorites", cfg.FavoriteHandler.Remove)
		}

		if cfg.ForumHandler != nil {
			protected.GET("/forum/categories", cfg.ForumHandler.ListCategories)
			protected.GET("/forum/categories/:slug/threads", cfg.ForumHandler.ListThreads)
			protected.POST("/forum/categories/:slug/threads", cfg.ForumHandler.CreateThread)
			protected.GET("/forum/threads/:id/posts", cfg.ForumHandler.ListPosts)
			protected.POST("/forum/threads/:id/posts", cfg.ForumHandler.CreatePost)
		}

		if cfg.LibraryHandler != nil {
			protected.GET("/library/publications", cfg.LibraryHandler.SearchPublications)
			protected.GET("/library/trials", cfg.LibraryHandler.SearchTrials)
		}

		if cfg.AssistantHandler != nil {
			protected.POST("/assistant/faq", cfg.AssistantHandler.AnswerFAQ)
			protected.POST("/assistant/spellcheck", cfg.AssistantHandler.CorrectSpelling)
		}

		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
