package domain

import (
	"time"

	"github.com/google/uuid"
)

type FavoriteKind string

const (
	FavoriteExperts      FavoriteKind = "experts"
	FavoriteTrials       FavoriteKind = "trials"
	FavoritePublications FavoriteKind = "publications"
)

func (k FavoriteKind) Valid() bool {
	switch k {
	case FavoriteExperts, FavoriteTrials, FavoritePublications:
		return true
	}
	return false
}

// Favorite points at an external catalog entity by opaque kind+item id.
type Favorite struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_item,priority:1" json:"user_id"`
	Kind   FavoriteKind `gorm:"not null;uniqueIndex:idx_favorite_item,priority:2" json:"kind"`
	ItemID string       `gorm:"not null;uniqueIndex:idx_favorite_item,priority:3;column:item_id" json:"item_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }
