package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string     `gorm:"type:varchar(255)" json:"full_name"`
	Role         string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GetPrivilegeCodes returns the privilege codes derived from the user's role
func (u *User) GetPrivilegeCodes() []string {
	return PrivilegesForRole(u.Role)
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Privileges  []string   `json:"privileges"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Privileges:  u.GetPrivilegeCodes(),
	}
}
