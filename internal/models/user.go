package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User owns posts, comments and a favorites list.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;default:'user'" json:"role,omitempty"`
	Name      string    `gorm:"size:100" json:"name,omitempty"`
	Lastname  string    `gorm:"size:100" json:"lastname,omitempty"`
	Picture   string    `gorm:"size:500" json:"picture,omitempty"`
	Favorites []Post    `gorm:"many2many:user_favorites" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SummaryColumns are the user fields exposed when a user is embedded in
// another resource (post author, likes, report reviewer).
var SummaryColumns = []string{"id", "username", "name", "lastname", "picture"}

// SelectSummary is a preload scope restricting users to SummaryColumns.
func SelectSummary(db *gorm.DB) *gorm.DB {
	return db.Select(SummaryColumns)
}
