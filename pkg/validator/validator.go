package validator

import (
	"go-erp-docs/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// doc_type menerima nama lengkap maupun kode lama (QUO, DO, BAP, INV)
	validate.RegisterValidation("doc_type", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseDocumentType(fl.Field().String())
		return ok
	})

	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.ParseCategory(fl.Field().String()) != ""
	})

	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
