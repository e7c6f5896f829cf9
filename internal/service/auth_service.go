package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Me(userID uuid.UUID) (*model.UserResponse, error)
	Logout(userID uuid.UUID) error
	ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single Session: token lama otomatis tidak berlaku
	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	// 5. Generate JWT token with TokenVersion
	token, err := jwt.GenerateToken(user.ID, user.Username, user.FullName, user.Role, user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		ExpiresAt:  now.Add(jwt.TTL()),
		User:       user.ToResponse(),
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

// Logout invalidates every token issued for the user
func (s *authService) Logout(userID uuid.UUID) error {
	return s.userRepo.UpdateTokenVersion(userID, uuid.New().String())
}

func (s *authService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return document.NewValidationError("new_password", "must be at least 6 characters")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Check if user is still active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 4. Check against DB for strict session (TokenVersion)
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
