package repository

import (
	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDs(ids []uuid.UUID) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return storageErr("create product", r.db.Create(product).Error)
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, storageErr("list products", err)
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, findErr("product", id, "find product", err)
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, storageErr("find products", err)
}

func (r *productRepo) Update(product *model.Product) error {
	return storageErr("update product", r.db.Save(product).Error)
}

// Delete is a soft delete; line items keep their copied fields
func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &document.NotFoundError{Entity: "product", ID: id.String()}
		}
		return nil
	})
	return storageErr("delete product", err)
}
