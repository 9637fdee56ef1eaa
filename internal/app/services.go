package app

import (
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Connection services.ConnectionService
	Chat       services.ChatService
	Favorite   services.FavoriteService
	Forum      services.ForumService
	Library    services.LibraryService
	Assistant  services.AssistantService
	Notifier   services.Notifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	notifier := services.NewNotifier(log, c.Bus, c.SendGrid)

	assistant, err := services.NewAssistantService(log, c.OpenAI)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth: services.NewAuthService(db, log, r.User, r.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.GoogleAudience),
		User:       services.NewUserService(log, r.User),
		Connection: services.NewConnectionService(log, r.User, r.Connection, notifier),
		Chat:       services.NewChatService(db, log, r.User, r.Connection, r.Message, notifier),
		Favorite:   services.NewFavoriteService(log, r.Favorite),
		Forum:      services.NewForumService(db, log, r.User, r.Forum),
		Library:    services.NewLibraryService(log, c.PubMed, c.ClinicalTrials),
		Assistant:  assistant,
		Notifier:   notifier,
	}, nil
}
