package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type FavoriteRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Favorite, error)
	// Insert is idempotent: a duplicate (user, kind, item) is silently kept
	// as the single existing row.
	Insert(ctx context.Context, tx *gorm.DB, fav *domain.Favorite) error
	// Delete is idempotent: deleting an absent row is a no-op.
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error
}

type favoriteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFavoriteRepo(db *gorm.DB, log *logger.Logger) FavoriteRepo {
	return &favoriteRepo{db: db, log: log.With("repo", "FavoriteRepo")}
}

func (r *favoriteRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *favoriteRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Favorite, error) {
	var out []*domain.Favorite
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *favoriteRepo) Insert(ctx context.Context, tx *gorm.DB, fav *domain.Favorite) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(fav).Error
}

func (r *favoriteRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error {
	return r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND kind = ? AND item_id = ?", userID, kind, itemID).
		Delete(&domain.Favorite{}).Error
}
