package repository

import (
	"errors"
	"fmt"

	"go-erp-docs/internal/document"

	"gorm.io/gorm"
)

// storageErr wraps a driver error once. Domain errors raised inside an
// Atomic callback pass through untouched.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainErr(err) {
		return err
	}
	return &document.StorageError{Op: op, Err: err}
}

// findErr is storageErr for single-row lookups
func findErr(entity string, id any, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &document.NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
	}
	return storageErr(op, err)
}

func isDomainErr(err error) bool {
	for _, target := range []error{
		document.ErrValidation,
		document.ErrDuplicatePurchaseOrder,
		document.ErrNoEligibleItems,
		document.ErrNotFound,
		document.ErrStorage,
		document.ErrConfirmedQuotation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
