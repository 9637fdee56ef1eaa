package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.User, error)
	ListByRole(ctx context.Context, tx *gorm.DB, role domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *domain.User) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return &userRepo{db: db, log: log.With("repo", "UserRepo")}
}

func (r *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	if len(users) == 0 {
		return []*domain.User{}, nil
	}
	if err := r.conn(tx).WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.conn(tx).WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	var out []*domain.User
	if err := r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := r.conn(tx).WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListByRole(ctx context.Context, tx *gorm.DB, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	if err := r.conn(tx).WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, tx *gorm.DB, user *domain.User) error {
	return r.conn(tx).WithContext(ctx).Save(user).Error
}

func (r *userRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.conn(tx).WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
