package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLength = 60

// PostScope selects which posts a listing returns.
type PostScope int

const (
	// PostsActive lists active posts of every user.
	PostsActive PostScope = iota
	// PostsOwned lists the caller's posts, active or not.
	PostsOwned
	// PostsAll lists everything. Admin only.
	PostsAll
)

// PostView is a post as seen by a given caller.
type PostView struct {
	models.Post
	IsFavorite bool `json:"is_favorite"`
	IsLiked    bool `json:"is_liked"`
}

type PostList struct {
	Posts      []PostView      `json:"data"`
	Pagination pagination.Info `json:"pagination"`
}

type PostService struct {
	db         *gorm.DB
	moderation *ModerationService
}

func NewPostService(db *gorm.DB, moderation *ModerationService) *PostService {
	return &PostService{db: db, moderation: moderation}
}

// Create moderates the description and stores the post. Nothing is written
// when the text is toxic or the classifier cannot be reached.
func (s *PostService) Create(ctx context.Context, actor Actor, req *dto.CreatePostRequest) (*PostView, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalid("description is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, invalid("title must be at most %d characters", maxTitleLength)
	}

	if err := s.moderation.CheckContent(ctx, description); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       title,
		Description: description,
		Image:       strings.TrimSpace(req.Image),
		Active:      true,
		UserID:      actor.ID,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "action", "post_create", "user_id", actor.ID.String(), "post_id", post.ID.String())
	return s.FindOneByID(ctx, actor, post.ID)
}

func (s *PostService) FindAll(ctx context.Context, actor Actor, scope PostScope, p pagination.Params) (*PostList, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		switch scope {
		case PostsOwned:
			return db.Where("user_id = ?", actor.ID)
		case PostsAll:
			return db
		default:
			return db.Where("active = ?", true)
		}
	}
	return s.list(ctx, actor, filter, p)
}

// FindFavorites lists the active posts the caller marked as favorite.
func (s *PostService) FindFavorites(ctx context.Context, actor Actor, p pagination.Params) (*PostList, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		favorites := s.db.Table("user_favorites").Select("post_id").Where("user_id = ?", actor.ID)
		return db.Where("active = ? AND id IN (?)", true, favorites)
	}
	return s.list(ctx, actor, filter, p)
}

func (s *PostService) list(ctx context.Context, actor Actor, filter func(*gorm.DB) *gorm.DB, p pagination.Params) (*PostList, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(filter, p.Scope).
		Order("created_at DESC").
		Preload("User", models.SelectSummary).
		Preload("Likes", models.SelectSummary).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	favorites, err := s.favoriteSet(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, PostView{
			Post:       post,
			IsFavorite: favorites[post.ID],
			IsLiked:    post.LikedBy(actor.ID),
		})
	}
	return &PostList{Posts: views, Pagination: p.Info(count)}, nil
}

// FindOneByID returns a post with author, likes and comments. Inactive posts
// are only visible to their owner and to admins.
func (s *PostService) FindOneByID(ctx context.Context, actor Actor, id uuid.UUID) (*PostView, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("User", models.SelectSummary).
		Preload("Likes", models.SelectSummary).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.User", models.SelectSummary).
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !post.Active && post.UserID != actor.ID && !actor.Admin {
		return nil, ErrPostNotFound
	}

	favorite, err := s.hasLink(s.db.WithContext(ctx), "user_favorites", id, actor.ID)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: post, IsFavorite: favorite, IsLiked: post.LikedBy(actor.ID)}, nil
}

// Update edits an owned post. The resulting description is moderated again
// and the manual review flag is cleared.
func (s *PostService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdatePostRequest) (*PostView, error) {
	post, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	description := post.Description
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, invalid("title must be at most %d characters", maxTitleLength)
		}
		updates["title"] = title
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, invalid("description cannot be empty")
		}
		updates["description"] = description
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}

	if err := s.moderation.CheckContent(ctx, description); err != nil {
		return nil, err
	}
	updates["manual_reviewed"] = false

	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.FindOneByID(ctx, actor, id)
}

func (s *PostService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePost(tx, id)
	}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	slog.Info("post deleted", "action", "post_delete", "user_id", actor.ID.String(), "post_id", id.String())
	return nil
}

// ToggleActive hides or republishes an owned post.
func (s *PostService) ToggleActive(ctx context.Context, actor Actor, id uuid.UUID) (*PostView, error) {
	post, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("active", !post.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle post: %w", err)
	}
	return s.FindOneByID(ctx, actor, id)
}

func (s *PostService) ToggleLike(ctx context.Context, actor Actor, id uuid.UUID) (*PostView, error) {
	if err := s.toggleLink(ctx, actor, "post_likes", id); err != nil {
		return nil, err
	}
	return s.FindOneByID(ctx, actor, id)
}

func (s *PostService) ToggleFavorite(ctx context.Context, actor Actor, id uuid.UUID) (*PostView, error) {
	if err := s.toggleLink(ctx, actor, "user_favorites", id); err != nil {
		return nil, err
	}
	return s.FindOneByID(ctx, actor, id)
}

// AddComment moderates and appends a comment to a visible post.
func (s *PostService) AddComment(ctx context.Context, actor Actor, id uuid.UUID, req *dto.CommentPostRequest) (*PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalid("content is required")
	}
	if _, err := s.FindOneByID(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := s.moderation.CheckContent(ctx, content); err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: id, UserID: actor.ID, Content: content}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.FindOneByID(ctx, actor, id)
}

func (s *PostService) owned(ctx context.Context, actor Actor, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return &post, nil
}

// toggleLink adds or removes the (post, user) row in a join table.
func (s *PostService) toggleLink(ctx context.Context, actor Actor, table string, postID uuid.UUID) error {
	if _, err := s.FindOneByID(ctx, actor, postID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		linked, err := s.hasLink(tx, table, postID, actor.ID)
		if err != nil {
			return err
		}
		if linked {
			return tx.Exec("DELETE FROM "+table+" WHERE post_id = ? AND user_id = ?", postID, actor.ID).Error
		}
		err = tx.Exec("INSERT INTO "+table+" (post_id, user_id) VALUES (?, ?)", postID, actor.ID).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	})
}

func (s *PostService) hasLink(db *gorm.DB, table string, postID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := db.Table(table).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PostService) favoriteSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Table("user_favorites").Where("user_id = ?", userID).Pluck("post_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
