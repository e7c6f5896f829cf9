package document

import (
	"fmt"
	"strings"
	"time"

	"go-erp-docs/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultDueDays is the invoice payment term used when none is configured
const DefaultDueDays = 30

const dateLayout = "2006-01-02"

// TargetCategory returns the only category a document type may hold.
// Quotations and invoices accept any category.
func TargetCategory(docType model.DocumentType) (model.Category, bool) {
	switch docType {
	case model.DocDeliveryOrder:
		return model.CategoryGoods, true
	case model.DocHandoverProtocol:
		return model.CategoryService, true
	}
	return "", false
}

// ConvertibleTarget reports whether a quotation can be converted to docType
func ConvertibleTarget(docType model.DocumentType) bool {
	switch docType {
	case model.DocDeliveryOrder, model.DocHandoverProtocol, model.DocInvoice:
		return true
	}
	return false
}

// ResolveCategory is the item's own category or, when that is empty, the
// linked product's category.
func ResolveCategory(item model.TransactionItem, product *model.Product) model.Category {
	if c := model.ParseCategory(string(item.Category)); c != "" {
		return c
	}
	if product != nil {
		return model.ParseCategory(string(product.Category))
	}
	return ""
}

// SelectItems copies the items eligible for target. resolved[i] is the
// resolved category of items[i]. Copies get no identity of their own, are
// renumbered, and carry the target's locked category where one exists.
func SelectItems(target model.DocumentType, items []model.TransactionItem, resolved []model.Category) ([]model.TransactionItem, error) {
	if len(resolved) != len(items) {
		return nil, NewValidationError("items", "category resolution does not match item count")
	}

	locked, isLocked := TargetCategory(target)
	selected := make([]model.TransactionItem, 0, len(items))
	for i, item := range items {
		if isLocked && resolved[i] != locked {
			continue
		}
		cp := item
		cp.ID = uuid.Nil
		cp.TransactionID = uuid.Nil
		cp.Product = nil
		cp.Position = len(selected) + 1
		if isLocked {
			cp.Category = locked
		} else if resolved[i] != "" {
			cp.Category = resolved[i]
		}
		selected = append(selected, cp)
	}

	if isLocked && len(selected) == 0 {
		return nil, &NoEligibleItemsError{Target: target, Category: locked}
	}
	return selected, nil
}

// NormalizePO trims surrounding whitespace from a PO number
func NormalizePO(po string) string {
	return strings.TrimSpace(po)
}

// FindPOConflict returns the first candidate other than selfID that holds
// po. An empty onlyType matches every document type.
func FindPOConflict(po string, candidates []model.Transaction, selfID uuid.UUID, onlyType model.DocumentType) *model.Transaction {
	po = NormalizePO(po)
	if po == "" {
		return nil
	}
	for i := range candidates {
		c := &candidates[i]
		if c.ID == selfID {
			continue
		}
		if onlyType != "" && c.Type != onlyType {
			continue
		}
		if NormalizePO(c.CustomerPO) == po {
			return c
		}
	}
	return nil
}

// CheckPurchaseOrder fails with DuplicatePurchaseOrderError when po is held
// by another candidate.
func CheckPurchaseOrder(po string, candidates []model.Transaction, selfID uuid.UUID, onlyType model.DocumentType) error {
	if conflict := FindPOConflict(po, candidates, selfID, onlyType); conflict != nil {
		return duplicatePO(NormalizePO(po), conflict)
	}
	return nil
}

// MatchKind tells how an invoice reference was picked
type MatchKind string

const (
	MatchPO     MatchKind = "po"     // same client and same PO number
	MatchClient MatchKind = "client" // same client only; a guess the user must confirm
	MatchNone   MatchKind = "none"
)

// MatchReference picks the document an invoice should reference among
// candidates (newest first): same client and PO preferred, then the first
// one of the same client.
func MatchReference(candidates []model.Transaction, clientID uuid.UUID, po string) (*model.Transaction, MatchKind) {
	po = NormalizePO(po)
	var clientMatch *model.Transaction
	for i := range candidates {
		c := &candidates[i]
		if c.ClientID != clientID {
			continue
		}
		if po != "" && NormalizePO(c.CustomerPO) == po {
			return c, MatchPO
		}
		if clientMatch == nil {
			clientMatch = c
		}
	}
	if clientMatch != nil {
		return clientMatch, MatchClient
	}
	return nil, MatchNone
}

// DueDate returns issue + days formatted as YYYY-MM-DD
func DueDate(issue time.Time, days int) string {
	return issue.AddDate(0, 0, days).Format(dateLayout)
}

// Draft is an unsaved document produced by a conversion
type Draft struct {
	Transaction  model.Transaction `json:"transaction"`
	SourceID     uuid.UUID         `json:"source_id"`
	DORefMatch   MatchKind         `json:"do_ref_match,omitempty"`
	BASTRefMatch MatchKind         `json:"bast_ref_match,omitempty"`
}

// DraftInput carries everything BuildDraft needs besides the source
type DraftInput struct {
	Target    model.DocumentType
	DocNumber string
	IssueDate time.Time
	Items     []model.TransactionItem
	DueDays   int
	DORef     *model.Transaction
	DOMatch   MatchKind
	BASTRef   *model.Transaction
	BASTMatch MatchKind
}

// BuildDraft assembles the draft for a conversion of source
func BuildDraft(source *model.Transaction, in DraftInput) Draft {
	tx := model.Transaction{
		Type:       in.Target,
		DocNumber:  in.DocNumber,
		Date:       in.IssueDate,
		ClientID:   source.ClientID,
		Client:     source.Client,
		CustomerPO: NormalizePO(source.CustomerPO),
		Status:     InitialStatus(in.Target),
		Items:      in.Items,
	}
	draft := Draft{Transaction: tx, SourceID: source.ID}

	if in.Target != model.DocInvoice {
		// DO/BAST forms carry no terms
		return draft
	}

	draft.Transaction.Terms = source.Terms
	days := in.DueDays
	if days <= 0 {
		days = DefaultDueDays
	}
	meta := model.InvoiceMeta{DueDate: DueDate(in.IssueDate, days)}
	draft.DORefMatch, draft.BASTRefMatch = MatchNone, MatchNone
	if in.DORef != nil {
		meta.DORef = in.DORef.DocNumber
		draft.DORefMatch = in.DOMatch
	}
	if in.BASTRef != nil {
		meta.BASTRef = in.BASTRef.DocNumber
		draft.BASTRefMatch = in.BASTMatch
	}
	draft.Transaction.InvoiceMeta = datatypes.NewJSONType(meta)
	return draft
}

// InitialStatus is Unpaid for invoices and Draft for everything else
func InitialStatus(docType model.DocumentType) model.TransactionStatus {
	if docType == model.DocInvoice {
		return model.StatusUnpaid
	}
	return model.StatusDraft
}

// AllowedStatuses lists the statuses a document type may hold
func AllowedStatuses(docType model.DocumentType) []model.TransactionStatus {
	switch docType {
	case model.DocQuotation:
		return []model.TransactionStatus{model.StatusDraft, model.StatusSent, model.StatusPO, model.StatusRejected}
	case model.DocDeliveryOrder, model.DocHandoverProtocol:
		return []model.TransactionStatus{model.StatusDraft, model.StatusSent}
	case model.DocInvoice:
		return []model.TransactionStatus{model.StatusUnpaid, model.StatusPaid}
	}
	return nil
}

// CheckStatus validates that status belongs to docType
func CheckStatus(docType model.DocumentType, status model.TransactionStatus) error {
	for _, s := range AllowedStatuses(docType) {
		if s == status {
			return nil
		}
	}
	return NewValidationError("status", fmt.Sprintf("%q is not a valid %s status", status, docType.Label()))
}

// CheckStatusChange validates a direct status update. PO is only reachable
// through PO confirmation, and a confirmed quotation keeps its PO status.
func CheckStatusChange(tx *model.Transaction, status model.TransactionStatus) error {
	if err := CheckStatus(tx.Type, status); err != nil {
		return err
	}
	if tx.Type != model.DocQuotation {
		return nil
	}
	if status == model.StatusPO {
		return NewValidationError("status", "confirm a PO number to move a quotation to PO")
	}
	if tx.HasConfirmedPO() {
		return NewValidationError("status", "quotation with confirmed PO cannot change status")
	}
	return nil
}

// CheckInvoiceStatus validates a paid/unpaid mark on an invoice
func CheckInvoiceStatus(tx *model.Transaction, status model.TransactionStatus) error {
	if tx.Type != model.DocInvoice {
		return NewValidationError("type", fmt.Sprintf("%s %s is not an invoice", tx.Type.Label(), tx.DocNumber))
	}
	if status != model.StatusPaid && status != model.StatusUnpaid {
		return NewValidationError("status", "invoice status must be Paid or Unpaid")
	}
	return nil
}

// CheckDeletable blocks deleting a quotation whose PO is confirmed
func CheckDeletable(tx *model.Transaction) error {
	if tx.Type == model.DocQuotation && tx.HasConfirmedPO() {
		return ErrConfirmedQuotation
	}
	return nil
}

// CheckItemCategories enforces the DO/BAST category rule on a document about
// to be saved. Items with no resolvable category take the locked one.
func CheckItemCategories(docType model.DocumentType, items []model.TransactionItem, resolved []model.Category) error {
	locked, ok := TargetCategory(docType)
	if !ok {
		for i := range items {
			if resolved[i] != "" {
				items[i].Category = resolved[i]
			}
		}
		return nil
	}
	for i := range items {
		switch resolved[i] {
		case "", locked:
			items[i].Category = locked
		default:
			return NewValidationError(fmt.Sprintf("items[%d].category", i),
				fmt.Sprintf("%s only accepts %s items", docType.Label(), locked))
		}
	}
	return nil
}
