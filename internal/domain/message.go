package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a directed chat record between two connected users. Seq is a
// store-assigned monotonic tiebreak so messages created within the same
// timestamp resolution keep a stable order.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Body       string    `gorm:"type:text;not null;column:body" json:"body"`
	Read       bool      `gorm:"not null;default:false;index" json:"read"`

	Seq int64 `gorm:"autoIncrement;uniqueIndex" json:"seq"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string { return "message" }
