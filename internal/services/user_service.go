package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/pagination"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	avatarBaseURL     = "https://i.pravatar.cc/150?u="
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserList struct {
	Users      []models.User   `json:"users"`
	Pagination pagination.Info `json:"pagination"`
}

// Create registers a user with a hashed password and a generated avatar.
func (s *UserService) Create(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if username == "" {
		return nil, invalid("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureAvailable(db, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	user := models.User{
		ID:       id,
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
		Name:     strings.TrimSpace(req.Name),
		Lastname: strings.TrimSpace(req.Lastname),
		Picture:  avatarBaseURL + id.String(),
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "action", "user_register", "user_id", user.ID.String())
	return &user, nil
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by username or email.
func (s *UserService) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrUserNotFound
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, normalizeEmail(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, p pagination.Params) (*UserList, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	users := []models.User{}
	if err := s.db.WithContext(ctx).Scopes(p.Scope).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return &UserList{Users: users, Pagination: p.Info(count)}, nil
}

// Update changes a profile. Users may only edit themselves unless the actor
// is an admin.
func (s *UserService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	if actor.ID != id && !actor.Admin {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	username, email := user.Username, user.Email

	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, invalid("username cannot be empty")
		}
		updates["username"] = username
	}
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, invalid("a valid email is required")
		}
		updates["email"] = email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, invalid("password must be at least %d characters", minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Lastname != nil {
		updates["lastname"] = strings.TrimSpace(*req.Lastname)
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.ensureAvailable(db, id, username, email); err != nil {
		return nil, err
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, invalid("role must be %s or %s", models.RoleUser, models.RoleAdmin)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	slog.Info("user role changed", "action", "user_role", "user_id", id.String(), "role", role)
	return s.FindByID(ctx, id)
}

// Delete removes a user with their posts, comments, likes and favorites.
// Reports filed by or against the user are kept.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var postIDs []uuid.UUID
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := deletePost(tx, postID); err != nil {
				return fmt.Errorf("failed to delete post %s: %w", postID, err)
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_likes WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_favorites WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// ensureAvailable checks that username and email are not used by anyone
// other than self.
func (s *UserService) ensureAvailable(db *gorm.DB, self uuid.UUID, username, email string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, self).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", username, self).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserResponse is the public view of a user.
func UserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Name:     u.Name,
		Lastname: u.Lastname,
		Picture:  u.Picture,
	}
}
