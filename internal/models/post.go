package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string    `gorm:"size:60" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Image          string    `gorm:"size:500;not null" json:"image"`
	Active         bool      `gorm:"not null;default:true;index" json:"active"`
	ManualReviewed bool      `gorm:"not null;default:false" json:"manual_reviewed"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Likes          []User    `gorm:"many2many:post_likes" json:"likes"`
	Comments       []Comment `json:"comments,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LikedBy reports whether userID is among the preloaded likes.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, u := range p.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}
