package domain

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a directed request between two researcher accounts. The pair
// columns hold the two ids in byte order under a composite unique index, so
// at most one row can exist for any unordered pair no matter which side asked
// first or how requests race.
type Connection struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID        `gorm:"type:uuid;not null;index" json:"requester_id"`
	ReceiverID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Status      ConnectionStatus `gorm:"not null;default:'pending';index" json:"status"`

	PairLo uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_connection_pair,priority:1" json:"-"`
	PairHi uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_connection_pair,priority:2" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Connection) TableName() string { return "connection" }

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairLo, c.PairHi = CanonicalPair(c.RequesterID, c.ReceiverID)
	return nil
}

// CanonicalPair orders two user ids so {A,B} and {B,A} map to the same key.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Counterpart returns the other party relative to viewer.
func (c *Connection) Counterpart(viewer uuid.UUID) uuid.UUID {
	if c.RequesterID == viewer {
		return c.ReceiverID
	}
	return c.RequesterID
}

// Involves reports whether userID is a party to the connection.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}
