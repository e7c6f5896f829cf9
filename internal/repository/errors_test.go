package repository

import (
	"errors"
	"fmt"
	"testing"

	"go-erp-docs/internal/document"

	"gorm.io/gorm"
)

func TestStorageErr(t *testing.T) {
	if storageErr("create", nil) != nil {
		t.Error("nil stays nil")
	}

	driver := errors.New("connection reset")
	err := storageErr("create transaction", driver)
	if !errors.Is(err, document.ErrStorage) || !errors.Is(err, driver) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}

	// already wrapped errors pass through
	if again := storageErr("atomic", err); again != err {
		t.Errorf("storage error must pass through, got %v", again)
	}

	dup := fmt.Errorf("confirm: %w", &document.DuplicatePurchaseOrderError{PONumber: "PO-1"})
	if got := storageErr("atomic", dup); got != dup {
		t.Errorf("domain error must pass through, got %v", got)
	}

	if got := storageErr("unique", gorm.ErrDuplicatedKey); !errors.Is(got, gorm.ErrDuplicatedKey) || !errors.Is(got, document.ErrStorage) {
		t.Errorf("unique violation should surface inside StorageError, got %v", got)
	}
}

func TestFindErr(t *testing.T) {
	err := findErr("transaction", "abc", "find transaction", gorm.ErrRecordNotFound)
	var nf *document.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "abc" {
		t.Errorf("expected NotFoundError for abc, got %v", err)
	}
	if !errors.Is(findErr("client", 1, "find client", errors.New("timeout")), document.ErrStorage) {
		t.Error("other errors should be storage errors")
	}
}
