package app

import (
	httpH "github.com/curalink/curalink-backend/internal/http/handlers"
	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/realtime"
)

type Handlers struct {
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Connection *httpH.ConnectionHandler
	Chat       *httpH.ChatHandler
	Favorite   *httpH.FavoriteHandler
	Forum      *httpH.ForumHandler
	Library    *httpH.LibraryHandler
	Assistant  *httpH.AssistantHandler
	Realtime   *httpH.RealtimeHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(s.Auth),
		User:       httpH.NewUserHandler(s.User),
		Connection: httpH.NewConnectionHandler(s.Connection),
		Chat:       httpH.NewChatHandler(s.Chat),
		Favorite:   httpH.NewFavoriteHandler(s.Favorite),
		Forum:      httpH.NewForumHandler(s.Forum),
		Library:    httpH.NewLibraryHandler(s.Library),
		Assistant:  httpH.NewAssistantHandler(s.Assistant),
		Realtime:   httpH.NewRealtimeHandler(hub),
		Health:     httpH.NewHealthHandler(),
	}
}
