package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type ForumRepo interface {
	ListCategories(ctx context.Context, tx *gorm.DB) ([]*domain.ForumCategory, error)
	GetCategoryBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.ForumCategory, error)
	UpsertCategory(ctx context.Context, tx *gorm.DB, cat *domain.ForumCategory) error

	CreateThread(ctx context.Context, tx *gorm.DB, thread *domain.ForumThread) error
	GetThreadByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ForumThread, error)
	ListThreadsByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*domain.ForumThread, error)

	CreatePost(ctx context.Context, tx *gorm.DB, post *domain.ForumPost) error
	ListPostsByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*domain.ForumPost, error)
}

type forumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewForumRepo(db *gorm.DB, log *logger.Logger) ForumRepo {
	return &forumRepo{db: db, log: log.With("repo", "ForumRepo")}
}

func (r *forumRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *forumRepo) ListCategories(ctx context.Context, tx *gorm.DB) ([]*domain.ForumCategory, error) {
	var out []*domain.ForumCategory
	if err := r.conn(tx).WithContext(ctx).Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *forumRepo) GetCategoryBySlug(ctx context.Context, tx *gorm.DB, slug string) (*domain.ForumCategory, error) {
	var c domain.ForumCategory
	err := r.conn(tx).WithContext(ctx).First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *forumRepo) UpsertCategory(ctx context.Context, tx *gorm.DB, cat *domain.ForumCategory) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(cat).Error
}

func (r *forumRepo) CreateThread(ctx context.Context, tx *gorm.DB, thread *domain.ForumThread) error {
	return r.conn(tx).WithContext(ctx).Create(thread).Error
}

func (r *forumRepo) GetThreadByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ForumThread, error) {
	var t domain.ForumThread
	err := r.conn(tx).WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *forumRepo) ListThreadsByCategory(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*domain.ForumThread, error) {
	var out []*domain.ForumThread
	if err := r.conn(tx).WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *forumRepo) CreatePost(ctx context.Context, tx *gorm.DB, post *domain.ForumPost) error {
	return r.conn(tx).WithContext(ctx).Create(post).Error
}

func (r *forumRepo) ListPostsByThread(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*domain.ForumPost, error) {
	var out []*domain.ForumPost
	if err := r.conn(tx).WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
