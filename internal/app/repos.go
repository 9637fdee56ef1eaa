package app

import (
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Connection repos.ConnectionRepo
	Message    repos.MessageRepo
	Favorite   repos.FavoriteRepo
	Forum      repos.ForumRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Connection: repos.NewConnectionRepo(db, log),
		Message:    repos.NewMessageRepo(db, log),
		Favorite:   repos.NewFavoriteRepo(db, log),
		Forum:      repos.NewForumRepo(db, log),
	}
}
