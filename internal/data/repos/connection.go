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

// ErrDuplicatePair reports that a connection already exists for the unordered
// user pair. It is raised by the composite unique index, not just the
// pre-check, so two racing requests cannot both insert.
var ErrDuplicatePair = errors.New("connection already exists for pair")

type ConnectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, conn *domain.Connection) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Connection, error)
	GetByPair(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*domain.Connection, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Connection, error)
	ListByUserAndStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.ConnectionStatus) error
}

type connectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConnectionRepo(db *gorm.DB, log *logger.Logger) ConnectionRepo {
	return &connectionRepo{db: db, log: log.With("repo", "ConnectionRepo")}
}

func (r *connectionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *connectionRepo) Create(ctx context.Context, tx *gorm.DB, conn *domain.Connection) error {
	err := r.conn(tx).WithContext(ctx).Create(conn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePair
	}
	return err
}

func (r *connectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Connection, error) {
	var c domain.Connection
	err := r.conn(tx).WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *connectionRepo) GetByPair(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*domain.Connection, error) {
	lo, hi := domain.CanonicalPair(a, b)
	var c domain.Connection
	err := r.conn(tx).WithContext(ctx).First(&c, "pair_lo = ? AND pair_hi = ?", lo, hi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *connectionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Connection, error) {
	var out []*domain.Connection
	if err := r.conn(tx).WithContext(ctx).
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *connectionRepo) ListByUserAndStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	var out []*domain.Connection
	if err := r.conn(tx).WithContext(ctx).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, status).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *connectionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.ConnectionStatus) error {
	return r.conn(tx).WithContext(ctx).
		Model(&domain.Connection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
