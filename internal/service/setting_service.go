package service

import (
	"encoding/json"
	"strings"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/repository"

	"gorm.io/datatypes"
)

type SettingService interface {
	GetAll() (map[string]json.RawMessage, error)
	Upsert(key string, value json.RawMessage) error
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

// GetAll returns settings as a key -> JSON value object
func (s *settingService) GetAll() (map[string]json.RawMessage, error) {
	settings, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(settings))
	for _, setting := range settings {
		out[setting.Key] = json.RawMessage(setting.Value)
	}
	return out, nil
}

func (s *settingService) Upsert(key string, value json.RawMessage) error {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 100 {
		return document.NewValidationError("key", "key is required (max 100 characters)")
	}
	if len(value) == 0 || !json.Valid(value) {
		return document.NewValidationError("value", "value must be valid JSON")
	}
	return s.repo.Upsert(key, datatypes.JSON(value))
}
