package repository

import (
	"encoding/json"

	"go-erp-docs/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() ([]model.Setting, error)
	Upsert(key string, value datatypes.JSON) error
	SeedDefaults() error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll() ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, storageErr("list settings", err)
}

func (r *settingRepo) Upsert(key string, value datatypes.JSON) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
	return storageErr("upsert setting", err)
}

// SeedDefaults only writes keys that do not exist yet
func (r *settingRepo) SeedDefaults() error {
	for key, value := range model.DefaultSettings {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		err = r.db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Setting{Key: key, Value: datatypes.JSON(raw)}).Error
		if err != nil {
			return storageErr("seed settings", err)
		}
	}
	return nil
}
