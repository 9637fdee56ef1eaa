package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/curalink/curalink-backend/internal/http"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,

		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		ConnectionHandler: handlers.Connection,
		ChatHandler:       handlers.Chat,
		FavoriteHandler:   handlers.Favorite,
		ForumHandler:      handlers.Forum,
		LibraryHandler:    handlers.Library,
		AssistantHandler:  handlers.Assistant,
		RealtimeHandler:   handlers.Realtime,
		HealthHandler:     handlers.Health,
	})
}
