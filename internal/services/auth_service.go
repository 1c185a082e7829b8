package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users *UserService
	cfg   *config.Config

	adminEmails  []string
	adminUserIDs []string
}

func NewAuthService(users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		users:        users,
		cfg:          cfg,
		adminEmails:  config.ParseCSV(strings.ToLower(cfg.AdminEmails)),
		adminUserIDs: config.ParseCSV(cfg.AdminUserIDs),
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.users.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login accepts a username or an email together with the password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// LoginAdmin is Login restricted to administrators.
func (s *AuthService) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !s.IsAdmin(user) {
		return nil, ErrForbidden
	}
	return s.issue(user)
}

func (s *AuthService) Whoami(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := UserResponse(user)
	if s.IsAdmin(user) {
		resp.Role = models.RoleAdmin
	}
	return &resp, nil
}

// IsAdmin reports whether the user holds the admin role or is listed in
// ADMIN_EMAILS / ADMIN_USER_IDS.
func (s *AuthService) IsAdmin(user *models.User) bool {
	return user.Role == models.RoleAdmin ||
		config.Contains(s.adminEmails, strings.ToLower(user.Email)) ||
		config.Contains(s.adminUserIDs, user.ID.String())
}

func (s *AuthService) authenticate(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	user, err := s.users.FindByIdentifier(ctx, req.Identifier())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	resp := UserResponse(user)
	if s.IsAdmin(user) {
		resp.Role = models.RoleAdmin
	}
	return &dto.AuthResponse{AccessToken: accessToken, User: resp}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	role := user.Role
	if s.IsAdmin(user) {
		role = models.RoleAdmin
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
