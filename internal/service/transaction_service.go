package service

import (
	"fmt"
	"strings"
	"time"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"
	"go-erp-docs/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Notifier receives lifecycle events after a successful write
type Notifier interface {
	Publish(eventType string, data interface{})
}

const (
	EventTransactionCreated   = "transaction_created"
	EventTransactionUpdated   = "transaction_updated"
	EventTransactionDeleted   = "transaction_deleted"
	EventStatusChanged        = "transaction_status_changed"
	EventPOConfirmed          = "po_confirmed"
	EventInvoiceStatusChanged = "invoice_status_changed"
	EventCatalogChanged       = "catalog_changed"
)

type TransactionService interface {
	List(docType string) ([]TransactionListItem, error)
	Get(id uuid.UUID) (*model.Transaction, error)
	Create(req *SaveTransactionRequest, userID string) (*model.Transaction, error)
	Update(id uuid.UUID, req *SaveTransactionRequest, userID string) (*model.Transaction, error)
	Delete(id uuid.UUID, userID string) error
	UpdateStatus(id uuid.UUID, status model.TransactionStatus, userID string) (*model.Transaction, error)
	NextNumber(docType model.DocumentType, date time.Time) (string, error)
	Summary(id uuid.UUID) (*document.Summary, error)
	InvoiceManagement() ([]InvoiceManagementRow, error)
}

type ItemRequest struct {
	ProductID    *uuid.UUID      `json:"product_id"`
	Category     string          `json:"category" validate:"omitempty,category"`
	Qty          decimal.Decimal `json:"qty"`
	Unit         string          `json:"unit" validate:"max=20"`
	Price        decimal.Decimal `json:"price"`
	Margin       decimal.Decimal `json:"margin"`
	SerialNumber string          `json:"sn"`
	Remarks      string          `json:"remarks"`
}

type SaveTransactionRequest struct {
	Type        string             `json:"type" validate:"required,doc_type"`
	DocNumber   string             `json:"doc_number" validate:"max=50"`
	Date        string             `json:"date" validate:"required"` // YYYY-MM-DD
	ClientID    uuid.UUID          `json:"client_id" validate:"uuid_required"`
	CustomerPO  string             `json:"customer_po" validate:"max=100"`
	Terms       string             `json:"terms"`
	Status      string             `json:"status"`
	InvoiceMeta *model.InvoiceMeta `json:"invoice_meta"`
	Items       []ItemRequest      `json:"items" validate:"dive"`
}

// TransactionListItem is one row of the transaction list
type TransactionListItem struct {
	model.Transaction
	ClientName string          `json:"client_name"`
	Total      decimal.Decimal `json:"total"`
}

// DocumentLink points from a quotation to a derived document
type DocumentLink struct {
	ID        uuid.UUID               `json:"id"`
	DocNumber string                  `json:"doc_number"`
	Status    model.TransactionStatus `json:"status"`
	Match     document.MatchKind      `json:"match"`
}

// InvoiceManagementRow groups a PO-confirmed quotation with its documents
type InvoiceManagementRow struct {
	Quotation     TransactionListItem `json:"quotation"`
	DeliveryOrder *DocumentLink       `json:"delivery_order"`
	Handover      *DocumentLink       `json:"handover"`
	Invoice       *DocumentLink       `json:"invoice"`
	IsPaid        bool                `json:"is_paid"`
}

type transactionService struct {
	repo     repository.TransactionRepository
	catalog  repository.CatalogRepository
	notifier Notifier
	dueDays  int
}

func NewTransactionService(repo repository.TransactionRepository, catalog repository.CatalogRepository, notifier Notifier, dueDays int) TransactionService {
	if dueDays <= 0 {
		dueDays = document.DefaultDueDays
	}
	return &transactionService{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		dueDays:  dueDays,
	}
}

func (s *transactionService) List(docType string) ([]TransactionListItem, error) {
	filter := repository.TransactionFilter{WithItems: true}
	if docType != "" {
		t, ok := model.ParseDocumentType(docType)
		if !ok {
			return nil, document.NewValidationError("type", fmt.Sprintf("unknown document type %q", docType))
		}
		filter.Type = t
	}

	transactions, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]TransactionListItem, len(transactions))
	for i, t := range transactions {
		rows[i] = toListItem(t)
	}
	return rows, nil
}

func toListItem(t model.Transaction) TransactionListItem {
	row := TransactionListItem{
		Transaction: t,
		ClientName:  t.ClientName(),
		Total:       document.CalculateTotal(t.Items, t.Type),
	}
	// list rows stay light
	row.Items = nil
	return row
}

func (s *transactionService) Get(id uuid.UUID) (*model.Transaction, error) {
	return s.repo.GetWithItems(id)
}

func (s *transactionService) Create(req *SaveTransactionRequest, userID string) (*model.Transaction, error) {
	// 1. Validasi & bangun dokumen dari request
	t, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}
	if err := applyStatus(t, model.TransactionStatus(req.Status)); err != nil {
		return nil, err
	}

	t.ID = uuid.New()
	t.CreatedBy = userID
	t.UpdatedBy = userID

	// 2. Nomor dokumen & cek PO di dalam satu transaksi DB
	err = s.repo.Atomic(func(repo repository.TransactionRepository) error {
		if err := s.reserve(repo, t, true, ""); err != nil {
			return err
		}
		return repo.CreateWithItems(t)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetWithItems(t.ID)
	if err != nil {
		return nil, err
	}

	// 3. Broadcast
	s.notifier.Publish(EventTransactionCreated, eventPayload(created, userID))
	return created, nil
}

func (s *transactionService) Update(id uuid.UUID, req *SaveTransactionRequest, userID string) (*model.Transaction, error) {
	t, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Atomic(func(repo repository.TransactionRepository) error {
		existing, err := repo.FindForUpdate(id)
		if err != nil {
			return err
		}
		if existing.Type != t.Type {
			return document.NewValidationError("type", "document type cannot be changed")
		}

		requested := model.TransactionStatus(req.Status)
		if requested == "" {
			requested = existing.Status
			if requested == model.StatusPO && t.CustomerPO == "" {
				requested = model.StatusDraft
			}
		}
		if err := applyStatus(t, requested); err != nil {
			return err
		}

		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		t.CreatedBy = existing.CreatedBy
		t.UpdatedBy = userID

		poChanged := document.NormalizePO(existing.CustomerPO) != t.CustomerPO
		if err := s.reserve(repo, t, poChanged, existing.DocNumber); err != nil {
			return err
		}
		return repo.UpdateWithItems(t)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.GetWithItems(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventTransactionUpdated, eventPayload(updated, userID))
	return updated, nil
}

// Delete is rejected by the repository for a quotation with a confirmed PO
func (s *transactionService) Delete(id uuid.UUID, userID string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.notifier.Publish(EventTransactionDeleted, map[string]interface{}{
		"id":         id,
		"deleted_by": userID,
	})
	return nil
}

func (s *transactionService) UpdateStatus(id uuid.UUID, status model.TransactionStatus, userID string) (*model.Transaction, error) {
	t, err := s.repo.GetWithItems(id)
	if err != nil {
		return nil, err
	}
	if err := document.CheckStatusChange(t, status); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(id, status, userID); err != nil {
		return nil, err
	}

	t.Status = status
	t.UpdatedBy = userID
	s.notifier.Publish(EventStatusChanged, eventPayload(t, userID))
	return t, nil
}

// NextNumber previews the next number; the number is only reserved on save
func (s *transactionService) NextNumber(docType model.DocumentType, date time.Time) (string, error) {
	existing, err := s.repo.FindNumbersWithPrefix(docType, document.DocPrefix(docType, date))
	if err != nil {
		return "", err
	}
	return document.NextDocNumber(docType, date, existing), nil
}

func (s *transactionService) Summary(id uuid.UUID) (*document.Summary, error) {
	t, err := s.repo.GetWithItems(id)
	if err != nil {
		return nil, err
	}
	summary := document.Summarize(t.Type, t.Items)
	return &summary, nil
}

func (s *transactionService) InvoiceManagement() ([]InvoiceManagementRow, error) {
	quotations, err := s.repo.List(repository.TransactionFilter{
		Type:      model.DocQuotation,
		WithPO:    true,
		WithItems: true,
	})
	if err != nil {
		return nil, err
	}

	derived := make(map[model.DocumentType][]model.Transaction, len(model.DocumentTypes)-1)
	for _, docType := range model.DocumentTypes {
		if docType == model.DocQuotation {
			continue
		}
		list, err := s.repo.ListByType(docType)
		if err != nil {
			return nil, err
		}
		derived[docType] = list
	}

	rows := make([]InvoiceManagementRow, 0, len(quotations))
	for _, q := range quotations {
		row := InvoiceManagementRow{
			Quotation:     toListItem(q),
			DeliveryOrder: linkFor(derived[model.DocDeliveryOrder], q),
			Handover:      linkFor(derived[model.DocHandoverProtocol], q),
			Invoice:       linkFor(derived[model.DocInvoice], q),
		}
		row.IsPaid = row.Invoice != nil && row.Invoice.Status == model.StatusPaid
		rows = append(rows, row)
	}
	return rows, nil
}

func linkFor(candidates []model.Transaction, q model.Transaction) *DocumentLink {
	ref, kind := document.MatchReference(candidates, q.ClientID, q.CustomerPO)
	if ref == nil {
		return nil
	}
	return &DocumentLink{ID: ref.ID, DocNumber: ref.DocNumber, Status: ref.Status, Match: kind}
}

// buildTransaction validates req and resolves client, products and
// categories. Status is left to the caller.
func (s *transactionService) buildTransaction(req *SaveTransactionRequest) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	docType, _ := model.ParseDocumentType(req.Type)
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, document.NewValidationError("date", "invalid date, use YYYY-MM-DD")
	}

	client, err := s.catalog.FindClient(req.ClientID)
	if err != nil {
		return nil, err
	}

	items, err := s.buildItems(docType, req.Items)
	if err != nil {
		return nil, err
	}

	t := &model.Transaction{
		Type:       docType,
		DocNumber:  strings.TrimSpace(req.DocNumber),
		Date:       date,
		ClientID:   client.ID,
		Client:     client,
		CustomerPO: document.NormalizePO(req.CustomerPO),
		Terms:      req.Terms,
		Items:      items,
	}

	if docType == model.DocInvoice {
		var meta model.InvoiceMeta
		if req.InvoiceMeta != nil {
			meta = *req.InvoiceMeta
		}
		if meta.DueDate == "" {
			meta.DueDate = document.DueDate(date, s.dueDays)
		} else if _, err := time.Parse("2006-01-02", meta.DueDate); err != nil {
			return nil, document.NewValidationError("invoice_meta.due_date", "invalid date, use YYYY-MM-DD")
		}
		t.InvoiceMeta = datatypes.NewJSONType(meta)
	}
	return t, nil
}

func (s *transactionService) buildItems(docType model.DocumentType, reqs []ItemRequest) ([]model.TransactionItem, error) {
	var ids []uuid.UUID
	for _, r := range reqs {
		if r.ProductID != nil {
			ids = append(ids, *r.ProductID)
		}
	}
	products, err := s.catalog.FindProducts(ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.TransactionItem, len(reqs))
	resolved := make([]model.Category, len(reqs))
	for i, r := range reqs {
		if r.Qty.IsNegative() {
			return nil, document.NewValidationError(fmt.Sprintf("items[%d].qty", i), "must not be negative")
		}
		if r.Price.IsNegative() {
			return nil, document.NewValidationError(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}

		var product *model.Product
		if r.ProductID != nil {
			p, ok := products[*r.ProductID]
			if !ok {
				return nil, &document.NotFoundError{Entity: "product", ID: r.ProductID.String()}
			}
			product = p
		}

		items[i] = model.TransactionItem{
			ProductID:    r.ProductID,
			Category:     model.Category(r.Category),
			Qty:          r.Qty,
			Unit:         r.Unit,
			Price:        r.Price,
			Margin:       r.Margin,
			SerialNumber: r.SerialNumber,
			Remarks:      r.Remarks,
		}
		if items[i].Unit == "" && product != nil {
			items[i].Unit = product.Unit
		}
		resolved[i] = document.ResolveCategory(items[i], product)
	}

	if err := document.CheckItemCategories(docType, items, resolved); err != nil {
		return nil, err
	}
	return items, nil
}

// applyStatus sets t.Status from the requested one. A quotation carrying a
// PO number is always in PO status.
func applyStatus(t *model.Transaction, requested model.TransactionStatus) error {
	if t.Type == model.DocQuotation {
		if t.CustomerPO != "" {
			t.Status = model.StatusPO
			return nil
		}
		if requested == model.StatusPO {
			return document.NewValidationError("status", "PO status needs a customer PO number")
		}
	}
	if requested == "" {
		requested = document.InitialStatus(t.Type)
	}
	if err := document.CheckStatus(t.Type, requested); err != nil {
		return err
	}
	t.Status = requested
	return nil
}

// reserve must run inside Atomic: it takes the sequence lock, re-checks PO
// uniqueness when asked, and settles the document number. current is the
// number of the document being updated ("" on create); an update keeps it
// unless another number is supplied.
func (s *transactionService) reserve(repo repository.TransactionRepository, t *model.Transaction, checkPO bool, current string) error {
	if err := repo.LockSequence(t.Type, t.Date); err != nil {
		return err
	}

	if checkPO && t.CustomerPO != "" && t.Type != model.DocInvoice {
		if err := repo.LockPurchaseOrder(t.CustomerPO); err != nil {
			return err
		}
		candidates, err := repo.FindByCustomerPO(t.CustomerPO)
		if err != nil {
			return err
		}
		// quotations own the PO across all types; DO/BAST only within their type
		onlyType := t.Type
		if t.Type == model.DocQuotation {
			onlyType = ""
		}
		if err := document.CheckPurchaseOrder(t.CustomerPO, candidates, t.ID, onlyType); err != nil {
			return err
		}
	}

	if t.DocNumber == "" && current != "" {
		t.DocNumber = current
	}
	if t.DocNumber != "" && t.DocNumber == current {
		return nil
	}

	prefix := document.DocPrefix(t.Type, t.Date)
	if t.DocNumber != "" {
		// only the date's sequence is locked
		if !strings.HasPrefix(t.DocNumber, prefix) {
			return document.NewValidationError("doc_number", fmt.Sprintf("must start with %s for this date", prefix))
		}
		same, err := repo.FindByDocNumber(t.Type, t.DocNumber)
		if err != nil {
			return err
		}
		if !document.DocNumberTaken(t.Type, t.DocNumber, same, t.ID) {
			return nil
		}
		if current != "" {
			return document.NewValidationError("doc_number", fmt.Sprintf("%s is already used by another %s", t.DocNumber, t.Type.Label()))
		}
	}

	existing, err := repo.FindNumbersWithPrefix(t.Type, prefix)
	if err != nil {
		return err
	}
	t.DocNumber = document.NextDocNumber(t.Type, t.Date, existing)
	return nil
}

func eventPayload(t *model.Transaction, userID string) map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"type":        t.Type,
		"doc_number":  t.DocNumber,
		"status":      t.Status,
		"customer_po": t.CustomerPO,
		"client":      t.ClientName(),
		"user_id":     userID,
		"message":     fmt.Sprintf("%s %s (%s)", t.Type.Label(), t.DocNumber, t.Status),
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return document.NewValidationError(first.FailedField, fmt.Sprintf("failed on tag '%s'", first.Tag))
}
