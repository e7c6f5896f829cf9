package repository

import (
	"time"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows List. Zero values mean "any".
type TransactionFilter struct {
	Type      model.DocumentType
	ClientID  *uuid.UUID
	WithPO    bool
	WithItems bool
	Limit     int
}

type TransactionRepository interface {
	List(filter TransactionFilter) ([]model.Transaction, error)
	ListByType(docType model.DocumentType) ([]model.Transaction, error)
	GetWithItems(id uuid.UUID) (*model.Transaction, error)
	FindForUpdate(id uuid.UUID) (*model.Transaction, error)
	FindByCustomerPO(po string) ([]model.Transaction, error)
	FindByDocNumber(docType model.DocumentType, docNumber string) ([]model.Transaction, error)
	FindNumbersWithPrefix(docType model.DocumentType, prefix string) ([]model.Transaction, error)
	CreateWithItems(t *model.Transaction) error
	UpdateWithItems(t *model.Transaction) error
	UpdateStatus(id uuid.UUID, status model.TransactionStatus, updatedBy string) error
	SetCustomerPO(id uuid.UUID, po string, status model.TransactionStatus, updatedBy string) error
	Delete(id uuid.UUID) error

	// LockSequence serializes numbering of one (type, month) sequence until
	// the surrounding Atomic call ends.
	LockSequence(docType model.DocumentType, date time.Time) error
	// LockPurchaseOrder serializes uniqueness checks of one PO number.
	LockPurchaseOrder(po string) error
	Atomic(fn func(repo TransactionRepository) error) error

	GetDashboardStats() (*DashboardStats, error)
	GetDocumentMovement(startDate, endDate time.Time) ([]DocumentMovementData, error)
}

// DocumentMovementData untuk chart data
type DocumentMovementData struct {
	Date           string `json:"date"`
	Quotations     int    `json:"quotations"`
	DeliveryOrders int    `json:"delivery_orders"`
	Handovers      int    `json:"handovers"`
	Invoices       int    `json:"invoices"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalQuotations int64 `json:"total_quotations"`
	TotalClients    int64 `json:"total_clients"`
	UnpaidInvoices  int64 `json:"unpaid_invoices"`
	ConfirmedPO     int64 `json:"confirmed_po"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *transactionRepo) List(filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction

	q := r.db.Preload("Client")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.WithPO {
		q = q.Where("customer_po <> ''")
	}
	if filter.WithItems {
		q = q.Preload("Items", orderedItems)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	err := q.Order("date DESC").Order("created_at DESC").Find(&transactions).Error
	return transactions, storageErr("list transactions", err)
}

// ListByType returns every document of a type, newest first
func (r *transactionRepo) ListByType(docType model.DocumentType) ([]model.Transaction, error) {
	return r.List(TransactionFilter{Type: docType})
}

func (r *transactionRepo) GetWithItems(id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.Preload("Client").
		Preload("Items", orderedItems).
		Preload("Items.Product").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, findErr("transaction", id, "find transaction", err)
	}
	return &t, nil
}

// FindForUpdate locks the transaction row; items are read after the lock
func (r *transactionRepo) FindForUpdate(id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, findErr("transaction", id, "lock transaction", err)
	}
	if err := orderedItems(r.db).Preload("Product").Where("transaction_id = ?", id).Find(&t.Items).Error; err != nil {
		return nil, storageErr("load transaction items", err)
	}
	return &t, nil
}

func (r *transactionRepo) FindByCustomerPO(po string) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("customer_po = ?", po).Order("date DESC").Find(&transactions).Error
	return transactions, storageErr("find by customer po", err)
}

func (r *transactionRepo) FindByDocNumber(docType model.DocumentType, docNumber string) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Select("id", "type", "doc_number").
		Where("type = ? AND doc_number = ?", docType, docNumber).
		Find(&transactions).Error
	return transactions, storageErr("find by doc number", err)
}

func (r *transactionRepo) FindNumbersWithPrefix(docType model.DocumentType, prefix string) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Select("id", "type", "doc_number").
		Where("type = ? AND doc_number LIKE ?", docType, prefix+"%").
		Find(&transactions).Error
	return transactions, storageErr("find doc numbers", err)
}

// CreateWithItems menyimpan header dan seluruh item dalam satu transaksi
func (r *transactionRepo) CreateWithItems(t *model.Transaction) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		items := t.Items
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		if err := createItems(tx, t.ID, items); err != nil {
			return err
		}
		t.Items = items
		return nil
	})
	return storageErr("create transaction", err)
}

// UpdateWithItems replaces the header fields and the whole item list
func (r *transactionRepo) UpdateWithItems(t *model.Transaction) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(t).
			Omit(clause.Associations).
			Select("type", "doc_number", "date", "client_id", "customer_po", "terms", "status", "invoice_meta", "updated_by", "updated_at").
			Updates(t)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &document.NotFoundError{Entity: "transaction", ID: t.ID.String()}
		}

		if err := tx.Where("transaction_id = ?", t.ID).Delete(&model.TransactionItem{}).Error; err != nil {
			return err
		}
		return createItems(tx, t.ID, t.Items)
	})
	return storageErr("update transaction", err)
}

func createItems(tx *gorm.DB, transactionID uuid.UUID, items []model.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].TransactionID = transactionID
		items[i].Position = i + 1
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *transactionRepo) UpdateStatus(id uuid.UUID, status model.TransactionStatus, updatedBy string) error {
	res := r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return storageErr("update status", res.Error)
	}
	if res.RowsAffected == 0 {
		return &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	return nil
}

func (r *transactionRepo) SetCustomerPO(id uuid.UUID, po string, status model.TransactionStatus, updatedBy string) error {
	res := r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_po": po,
			"status":      status,
			"updated_by":  updatedBy,
		})
	if res.Error != nil {
		return storageErr("set customer po", res.Error)
	}
	if res.RowsAffected == 0 {
		return &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	return nil
}

// Delete removes the document and its items permanently. A quotation with
// a confirmed PO is rejected with document.ErrConfirmedQuotation.
func (r *transactionRepo) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t model.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", id).Error; err != nil {
			return findErr("transaction", id, "lock transaction", err)
		}
		if err := document.CheckDeletable(&t); err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", id).Delete(&model.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Transaction{}, "id = ?", id).Error
	})
	return storageErr("delete transaction", err)
}

func (r *transactionRepo) advisoryLock(key string) error {
	return r.db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *transactionRepo) LockSequence(docType model.DocumentType, date time.Time) error {
	return storageErr("lock sequence", r.advisoryLock("seq:"+document.DocPrefix(docType, date)))
}

func (r *transactionRepo) LockPurchaseOrder(po string) error {
	return storageErr("lock purchase order", r.advisoryLock("po:"+po))
}

func (r *transactionRepo) Atomic(fn func(repo TransactionRepository) error) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&transactionRepo{tx})
	})
	return storageErr("commit", err)
}

func (r *transactionRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	// Total Quotations
	if err := r.db.Model(&model.Transaction{}).Where("type = ?", model.DocQuotation).Count(&stats.TotalQuotations).Error; err != nil {
		return nil, storageErr("count quotations", err)
	}

	// Quotations yang sudah ada PO
	if err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND customer_po <> ''", model.DocQuotation).
		Count(&stats.ConfirmedPO).Error; err != nil {
		return nil, storageErr("count confirmed po", err)
	}

	// Total Clients
	if err := r.db.Model(&model.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, storageErr("count clients", err)
	}

	// Invoice belum dibayar
	if err := r.db.Model(&model.Transaction{}).
		Where("type = ? AND status <> ?", model.DocInvoice, model.StatusPaid).
		Count(&stats.UnpaidInvoices).Error; err != nil {
		return nil, storageErr("count unpaid invoices", err)
	}

	return &stats, nil
}

func (r *transactionRepo) GetDocumentMovement(startDate, endDate time.Time) ([]DocumentMovementData, error) {
	var results []DocumentMovementData

	// Aggregate dokumen per hari per jenis
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			TO_CHAR(date, 'YYYY-MM-DD') as day,
			COUNT(*) FILTER (WHERE type = ?) as quotations,
			COUNT(*) FILTER (WHERE type = ?) as delivery_orders,
			COUNT(*) FILTER (WHERE type = ?) as handovers,
			COUNT(*) FILTER (WHERE type = ?) as invoices
		`, model.DocQuotation, model.DocDeliveryOrder, model.DocHandoverProtocol, model.DocInvoice).
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Group("day").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, storageErr("document movement", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data DocumentMovementData
		if err := rows.Scan(&data.Date, &data.Quotations, &data.DeliveryOrders, &data.Handovers, &data.Invoices); err != nil {
			return nil, storageErr("scan document movement", err)
		}
		results = append(results, data)
	}

	return results, storageErr("document movement", rows.Err())
}
