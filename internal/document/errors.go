package document

import (
	"errors"
	"fmt"

	"go-erp-docs/internal/model"

	"github.com/google/uuid"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrDuplicatePurchaseOrder = errors.New("purchase order number already used")
	ErrNoEligibleItems        = errors.New("no eligible items")
	ErrNotFound               = errors.New("not found")
	ErrStorage                = errors.New("storage failure")

	// ErrConfirmedQuotation blocks deleting a quotation whose PO is confirmed
	ErrConfirmedQuotation = errors.New("quotation with confirmed PO cannot be deleted")
)

// ValidationError describes malformed or missing input
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicatePurchaseOrderError names the document already holding the PO number
type DuplicatePurchaseOrderError struct {
	PONumber          string
	ConflictID        uuid.UUID
	ConflictType      model.DocumentType
	ConflictDocNumber string
}

func (e *DuplicatePurchaseOrderError) Error() string {
	return fmt.Sprintf("PO Number %q already used in %s %s", e.PONumber, e.ConflictType.Label(), e.ConflictDocNumber)
}

func (e *DuplicatePurchaseOrderError) Unwrap() error { return ErrDuplicatePurchaseOrder }

func duplicatePO(po string, conflict *model.Transaction) *DuplicatePurchaseOrderError {
	return &DuplicatePurchaseOrderError{
		PONumber:          po,
		ConflictID:        conflict.ID,
		ConflictType:      conflict.Type,
		ConflictDocNumber: conflict.DocNumber,
	}
}

// NoEligibleItemsError is returned when a DO/BAST conversion would be empty
type NoEligibleItemsError struct {
	Target   model.DocumentType
	Category model.Category
}

func (e *NoEligibleItemsError) Error() string {
	return fmt.Sprintf("no %s items to create %s", e.Category, e.Target.Label())
}

func (e *NoEligibleItemsError) Unwrap() error { return ErrNoEligibleItems }

// StorageError wraps a repository failure. The driver error stays reachable
// through errors.Unwrap; errors.Is(err, ErrStorage) also holds.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NotFoundError names the missing entity
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
