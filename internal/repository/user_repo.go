package repository

import (
	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uuid.UUID) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	FindAll() ([]model.User, error)
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastLogin(userID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, findErr("user", username, "find user", err)
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, findErr("user", id, "find user", err)
	}
	return &user, nil
}

func (r *userRepo) Create(user *model.User) error {
	return storageErr("create user", r.db.Create(user).Error)
}

func (r *userRepo) Update(user *model.User) error {
	return storageErr("update user", r.db.Save(user).Error)
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
	return storageErr("update password", err)
}

func (r *userRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return storageErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return &document.NotFoundError{Entity: "user", ID: id.String()}
	}
	return nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("username ASC").Find(&users).Error
	return users, storageErr("list users", err)
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
	return storageErr("update token version", err)
}

func (r *userRepo) UpdateLastLogin(userID uuid.UUID) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login_at", gorm.Expr("NOW()")).Error
	return storageErr("update last login", err)
}
