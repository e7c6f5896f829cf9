package repository

import (
	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnitRepository interface {
	FindAll() ([]model.Unit, error)
	Create(name string) error
	Delete(name string) error
	Rename(oldName, newName string) error
	SeedDefaults() error
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) FindAll() ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.Order("name ASC").Find(&units).Error
	return units, storageErr("list units", err)
}

// Create is idempotent
func (r *unitRepo) Create(name string) error {
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Unit{Name: name}).Error
	return storageErr("create unit", err)
}

func (r *unitRepo) Delete(name string) error {
	res := r.db.Delete(&model.Unit{}, "name = ?", name)
	if res.Error != nil {
		return storageErr("delete unit", res.Error)
	}
	if res.RowsAffected == 0 {
		return &document.NotFoundError{Entity: "unit", ID: name}
	}
	return nil
}

// Rename ganti nama satuan sekaligus di produk dan item transaksi
func (r *unitRepo) Rename(oldName, newName string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var unit model.Unit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&unit, "name = ?", oldName).Error; err != nil {
			return findErr("unit", oldName, "find unit", err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Unit{Name: newName}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).Where("unit = ?", oldName).Update("unit", newName).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.TransactionItem{}).Where("unit = ?", oldName).Update("unit", newName).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Unit{}, "name = ?", oldName).Error
	})
	return storageErr("rename unit", err)
}

func (r *unitRepo) SeedDefaults() error {
	for _, name := range model.DefaultUnits {
		if err := r.Create(name); err != nil {
			return err
		}
	}
	return nil
}
