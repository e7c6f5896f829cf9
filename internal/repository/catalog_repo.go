package repository

import (
	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository is the read side of clients and products that the
// document services need.
type CatalogRepository interface {
	FindClient(id uuid.UUID) (*model.Client, error)
	FindProducts(ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
}

type catalogRepo struct {
	clients  ClientRepository
	products ProductRepository
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{
		clients:  NewClientRepo(db),
		products: NewProductRepo(db),
	}
}

func (r *catalogRepo) FindClient(id uuid.UUID) (*model.Client, error) {
	return r.clients.FindByID(id)
}

// FindProducts returns the products found, keyed by id. Missing ids are
// simply absent from the map.
func (r *catalogRepo) FindProducts(ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	products, err := r.products.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}
