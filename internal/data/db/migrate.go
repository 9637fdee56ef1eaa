package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/domain"
)

// Models returns every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.UserToken{},
		&domain.Connection{},
		&domain.Message{},
		&domain.Favorite{},
		&domain.ForumCategory{},
		&domain.ForumThread{},
		&domain.ForumPost{},
	}
}

func AutoMigrateAll(database *gorm.DB) error {
	for _, m := range Models() {
		if err := database.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
