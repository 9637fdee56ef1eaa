package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *domain.UserToken) error
	GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*domain.UserToken, error)
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*domain.UserToken, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.UserToken, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: log.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *domain.UserToken) error {
	return r.conn(tx).WithContext(ctx).Create(token).Error
}

func (r *userTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*domain.UserToken, error) {
	var t domain.UserToken
	err := r.conn(tx).WithContext(ctx).First(&t, "access_token = ?", accessToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*domain.UserToken, error) {
	var t domain.UserToken
	err := r.conn(tx).WithContext(ctx).First(&t, "refresh_token = ?", refreshToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userTokenRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.UserToken, error) {
	var out []*domain.UserToken
	if err := r.conn(tx).WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userTokenRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Delete(&domain.UserToken{}).Error
}

func (r *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.UserToken{}).Error
}

func (r *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error {
	return r.conn(tx).WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.UserToken{}).Error
}
