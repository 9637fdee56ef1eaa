package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, msg *domain.Message) error
	// ListBetween returns the full thread between two users, oldest first.
	ListBetween(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) ([]*domain.Message, error)
	// LatestBetween returns the most recent message of the pair, or nil.
	LatestBetween(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*domain.Message, error)
	CountUnreadFrom(ctx context.Context, tx *gorm.DB, senderID, receiverID uuid.UUID) (int64, error)
	// MarkReadFrom flags every unread message sender->receiver as read and
	// returns the number of rows touched.
	MarkReadFrom(ctx context.Context, tx *gorm.DB, senderID, receiverID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *messageRepo) Create(ctx context.Context, tx *gorm.DB, msg *domain.Message) error {
	return r.conn(tx).WithContext(ctx).Create(msg).Error
}

func pairScope(a, b uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a, b, b, a,
		)
	}
}

func (r *messageRepo) ListBetween(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) ([]*domain.Message, error) {
	var out []*domain.Message
	if err := r.conn(tx).WithContext(ctx).
		Scopes(pairScope(a, b)).
		Order("created_at ASC, seq ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) LatestBetween(ctx context.Context, tx *gorm.DB, a, b uuid.UUID) (*domain.Message, error) {
	var m domain.Message
	err := r.conn(tx).WithContext(ctx).
		Scopes(pairScope(a, b)).
		Order("created_at DESC, seq DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepo) CountUnreadFrom(ctx context.Context, tx *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	var n int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *messageRepo) MarkReadFrom(ctx context.Context, tx *gorm.DB, senderID, receiverID uuid.UUID) (int64, error) {
	res := r.conn(tx).WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
