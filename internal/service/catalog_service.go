package service

import (
	"fmt"
	"strings"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	ListClients() ([]model.Client, error)
	GetClient(id uuid.UUID) (*model.Client, error)
	CreateClient(req *ClientRequest, userID string) (*model.Client, error)
	UpdateClient(id uuid.UUID, req *ClientRequest, userID string) (*model.Client, error)
	DeleteClient(id uuid.UUID, userID string) error

	ListProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	CreateProduct(req *ProductRequest, userID string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error

	ListUnits() ([]model.Unit, error)
	AddUnit(name string) error
	DeleteUnit(name string) error
	RenameUnit(oldName, newName string) error
}

type ClientRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address"`
	Email   string `json:"email" validate:"omitempty,email"`
	PIC     string `json:"pic" validate:"max=255"`
	NPWP    string `json:"npwp" validate:"max=30"`
}

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required,category"`
	Unit        string          `json:"unit" validate:"max=20"`
	Price       decimal.Decimal `json:"price"`
}

type catalogService struct {
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	unitRepo    repository.UnitRepository
	notifier    Notifier
}

func NewCatalogService(cRepo repository.ClientRepository, pRepo repository.ProductRepository, uRepo repository.UnitRepository, notifier Notifier) CatalogService {
	return &catalogService{
		clientRepo:  cRepo,
		productRepo: pRepo,
		unitRepo:    uRepo,
		notifier:    notifier,
	}
}

func (s *catalogService) ListClients() ([]model.Client, error) {
	return s.clientRepo.FindAll()
}

func (s *catalogService) GetClient(id uuid.UUID) (*model.Client, error) {
	return s.clientRepo.FindByID(id)
}

func (s *catalogService) CreateClient(req *ClientRequest, userID string) (*model.Client, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	client := &model.Client{
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
		Email:   req.Email,
		PIC:     req.PIC,
		NPWP:    req.NPWP,
	}
	client.CreatedBy = userID
	client.UpdatedBy = userID

	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}

	s.publish("client_created", client.ID, client.Name, userID)
	return client, nil
}

func (s *catalogService) UpdateClient(id uuid.UUID, req *ClientRequest, userID string) (*model.Client, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(req.Name)
	client.Address = req.Address
	client.Email = req.Email
	client.PIC = req.PIC
	client.NPWP = req.NPWP
	client.UpdatedBy = userID

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}

	s.publish("client_updated", client.ID, client.Name, userID)
	return client, nil
}

func (s *catalogService) DeleteClient(id uuid.UUID, userID string) error {
	if err := s.clientRepo.Delete(id, userID); err != nil {
		return err
	}
	s.publish("client_deleted", id, "", userID)
	return nil
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *catalogService) CreateProduct(req *ProductRequest, userID string) (*model.Product, error) {
	product := &model.Product{}
	if err := applyProduct(product, req); err != nil {
		return nil, err
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.publish("product_created", product.ID, product.Name, userID)
	return product, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *ProductRequest, userID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(product, req); err != nil {
		return nil, err
	}
	product.UpdatedBy = userID

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.publish("product_updated", product.ID, product.Name, userID)
	return product, nil
}

func applyProduct(product *model.Product, req *ProductRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	if req.Price.IsNegative() {
		return document.NewValidationError("price", "must not be negative")
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Category = model.ParseCategory(req.Category)
	product.Unit = req.Unit
	product.Price = req.Price
	return nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, userID string) error {
	if err := s.productRepo.Delete(id, userID); err != nil {
		return err
	}
	s.publish("product_deleted", id, "", userID)
	return nil
}

func (s *catalogService) ListUnits() ([]model.Unit, error) {
	return s.unitRepo.FindAll()
}

func (s *catalogService) AddUnit(name string) error {
	name, err := unitName("name", name)
	if err != nil {
		return err
	}
	return s.unitRepo.Create(name)
}

func (s *catalogService) DeleteUnit(name string) error {
	return s.unitRepo.Delete(name)
}

func (s *catalogService) RenameUnit(oldName, newName string) error {
	newName, err := unitName("new_name", newName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	return s.unitRepo.Rename(oldName, newName)
}

func unitName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", document.NewValidationError(field, "unit name is required")
	}
	if len(name) > 20 {
		return "", document.NewValidationError(field, "unit name is too long")
	}
	return name, nil
}

func (s *catalogService) publish(action string, id uuid.UUID, name, userID string) {
	s.notifier.Publish(EventCatalogChanged, map[string]interface{}{
		"action":  action,
		"id":      id,
		"name":    name,
		"user_id": userID,
		"message": fmt.Sprintf("%s %s", action, name),
	})
}
