package repository

import (
	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(client *model.Client) error
	FindAll() ([]model.Client, error)
	FindByID(id uuid.UUID) (*model.Client, error)
	Update(client *model.Client) error
	Delete(id uuid.UUID, deletedBy string) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(client *model.Client) error {
	return storageErr("create client", r.db.Create(client).Error)
}

func (r *clientRepo) FindAll() ([]model.Client, error) {
	var clients []model.Client
	err := r.db.Order("name ASC").Find(&clients).Error
	return clients, storageErr("list clients", err)
}

func (r *clientRepo) FindByID(id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, findErr("client", id, "find client", err)
	}
	return &client, nil
}

func (r *clientRepo) Update(client *model.Client) error {
	return storageErr("update client", r.db.Save(client).Error)
}

func (r *clientRepo) Delete(id uuid.UUID, deletedBy string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Client{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Client{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &document.NotFoundError{Entity: "client", ID: id.String()}
		}
		return nil
	})
	return storageErr("delete client", err)
}
