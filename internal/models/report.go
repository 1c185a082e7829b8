package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportType string

const (
	ReportTypePost    ReportType = "POST"
	ReportTypeComment ReportType = "COMMENT"
)

func (t ReportType) Valid() bool {
	return t == ReportTypePost || t == ReportTypeComment
}

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusAccepted ReportStatus = "ACCEPTED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// Report is a moderation request against a post or comment. Content is a
// snapshot taken at creation; the reported element may be gone later.
//
// The partial unique index allows a single PENDING report per element.
type Report struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Content           string                      `gorm:"type:text;not null" json:"content"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	Type              ReportType                  `gorm:"size:20;not null;index" json:"type"`
	ReportedElementID uuid.UUID                   `gorm:"type:uuid;not null;index;uniqueIndex:idx_reports_pending_element,where:status = 'PENDING'" json:"reported_element_id"`
	Status            ReportStatus                `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	UserID            uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReporterID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReviewerID        *uuid.UUID                  `gorm:"type:uuid" json:"reviewer_id"`
	Reviewer          *User                       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	RevisionDate      *time.Time                  `json:"revision_date"`
	CreatedAt         time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
