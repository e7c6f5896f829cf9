package service

import (
	"errors"
	"strings"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrUsernameExists   = errors.New("username already exists")
	ErrCannotDeleteSelf = errors.New("you cannot delete your own account")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(userID uuid.UUID, requesterID string) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=255"`
	Role     string `json:"role" validate:"required,role"`
}

type UpdateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName string  `json:"full_name" validate:"max=255"`
	Role     string  `json:"role" validate:"required,role"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) usernameTaken(username string, selfID uuid.UUID) (bool, error) {
	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != selfID, nil
}

func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	username := strings.TrimSpace(req.Username)

	// 2. Check if username already exists
	taken, err := s.usernameTaken(username, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameExists
	}

	// 3. Create user
	user := &model.User{
		Username: username,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	// 2. Find existing user
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	// 3. Username must stay unique
	username := strings.TrimSpace(req.Username)
	if username != user.Username {
		taken, err := s.usernameTaken(username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameExists
		}
	}

	// 4. Update user fields
	user.Username = username
	user.FullName = req.FullName
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	// 5. Update password if provided
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID, requesterID string) error {
	if userID.String() == requesterID {
		return ErrCannotDeleteSelf
	}
	return s.userRepo.Delete(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}
