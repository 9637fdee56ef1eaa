package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Forum content lived in process-global maps in the legacy service; these
// rows replace that so threads survive restarts and scale across workers.

type ForumCategory struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug  string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title string    `gorm:"not null" json:"title"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ForumCategory) TableName() string { return "forum_category" }

type ForumThread struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ForumThread) TableName() string { return "forum_thread" }

type ForumPost struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Body     string    `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ForumPost) TableName() string { return "forum_post" }
