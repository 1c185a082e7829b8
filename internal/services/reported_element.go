package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reportedElement is the storage a report points into, selected by the
// report type.
type reportedElement interface {
	// fetch returns the author and the text to snapshot into the report.
	fetch(tx *gorm.DB, id uuid.UUID) (author uuid.UUID, content string, err error)
	delete(tx *gorm.DB, id uuid.UUID) error
	flagReviewed(tx *gorm.DB, id uuid.UUID) error
}

func elementFor(t models.ReportType) (reportedElement, error) {
	switch t {
	case models.ReportTypePost:
		return postElement{}, nil
	case models.ReportTypeComment:
		return commentElement{}, nil
	default:
		return nil, invalid("type must be POST or COMMENT")
	}
}

type postElement struct{}

func (postElement) fetch(tx *gorm.DB, id uuid.UUID) (uuid.UUID, string, error) {
	var post models.Post
	if err := tx.Select("id", "user_id", "description").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, "", ErrPostNotFound
		}
		return uuid.Nil, "", err
	}
	return post.UserID, post.Description, nil
}

func (postElement) delete(tx *gorm.DB, id uuid.UUID) error {
	return deletePost(tx, id)
}

func (postElement) flagReviewed(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&models.Post{}).Where("id = ?", id).Update("manual_reviewed", true).Error
}

type commentElement struct{}

func (commentElement) fetch(tx *gorm.DB, id uuid.UUID) (uuid.UUID, string, error) {
	var comment models.Comment
	if err := tx.Select("id", "user_id", "content").First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, "", ErrCommentNotFound
		}
		return uuid.Nil, "", err
	}
	return comment.UserID, comment.Content, nil
}

func (commentElement) delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&models.Comment{}).Error
}

func (commentElement) flagReviewed(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&models.Comment{}).Where("id = ?", id).Update("manual_reviewed", true).Error
}

// deletePost hard-deletes a post with its comments, likes and favorite entries.
func deletePost(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM post_likes WHERE post_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM user_favorites WHERE post_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Post{}).Error
}
