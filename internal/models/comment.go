package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID         uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	ManualReviewed bool      `gorm:"not null;default:false" json:"manual_reviewed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
