package document

import (
	"errors"
	"testing"
	"time"

	"go-erp-docs/internal/model"

	"github.com/google/uuid"
)

func resolvedOf(items []model.TransactionItem) []model.Category {
	out := make([]model.Category, len(items))
	for i, it := range items {
		out[i] = ResolveCategory(it, nil)
	}
	return out
}

func TestResolveCategory(t *testing.T) {
	goods := &model.Product{Category: model.CategoryGoods}

	tests := []struct {
		name    string
		item    model.TransactionItem
		product *model.Product
		want    model.Category
	}{
		{"item category wins", model.TransactionItem{Category: "service"}, goods, model.CategoryService},
		{"falls back to product", model.TransactionItem{}, goods, model.CategoryGoods},
		{"nothing to resolve", model.TransactionItem{}, nil, ""},
		{"unknown item category uses product", model.TransactionItem{Category: "misc"}, goods, model.CategoryGoods},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.item, tt.product); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSelectItemsDeliveryOrder(t *testing.T) {
	items := []model.TransactionItem{
		{ID: uuid.New(), Position: 1, Category: model.CategoryGoods, Qty: dec("2"), Price: dec("1000"), SerialNumber: "SN-1"},
		{ID: uuid.New(), Position: 2, Category: model.CategoryService, Qty: dec("1"), Price: dec("5000")},
	}

	got, err := SelectItems(model.DocDeliveryOrder, items, resolvedOf(items))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Category != model.CategoryGoods || got[0].SerialNumber != "SN-1" {
		t.Errorf("unexpected item %+v", got[0])
	}
	if got[0].ID != uuid.Nil || got[0].Position != 1 {
		t.Errorf("copies must be fresh and renumbered, got id=%s position=%d", got[0].ID, got[0].Position)
	}
	if items[0].ID == uuid.Nil {
		t.Error("source items must not be modified")
	}
}

func TestSelectItemsHandoverRenumbers(t *testing.T) {
	items := []model.TransactionItem{
		{Position: 1, Category: model.CategoryGoods},
		{Position: 2, Category: "jasa"},
		{Position: 3, Category: model.CategoryService},
	}

	got, err := SelectItems(model.DocHandoverProtocol, items, resolvedOf(items))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	for i, it := range got {
		if it.Position != i+1 || it.Category != model.CategoryService {
			t.Errorf("item %d: position=%d category=%s", i, it.Position, it.Category)
		}
	}
}

func TestSelectItemsNoEligible(t *testing.T) {
	items := []model.TransactionItem{
		{Category: model.CategoryService},
		{Category: model.CategoryService},
	}

	_, err := SelectItems(model.DocDeliveryOrder, items, resolvedOf(items))

	var noItems *NoEligibleItemsError
	if !errors.As(err, &noItems) {
		t.Fatalf("expected NoEligibleItemsError, got %v", err)
	}
	if !errors.Is(err, ErrNoEligibleItems) {
		t.Error("expected errors.Is ErrNoEligibleItems")
	}
	if noItems.Category != model.CategoryGoods {
		t.Errorf("expected Barang, got %s", noItems.Category)
	}
}

func TestSelectItemsInvoiceKeepsEverything(t *testing.T) {
	items := []model.TransactionItem{
		{Category: model.CategoryGoods},
		{Category: model.CategoryService},
		{},
	}

	got, err := SelectItems(model.DocInvoice, items, resolvedOf(items))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}

	if _, err := SelectItems(model.DocInvoice, nil, nil); err != nil {
		t.Errorf("empty invoice draft is allowed, got %v", err)
	}
}

func TestCheckPurchaseOrder(t *testing.T) {
	a := doc(model.DocQuotation, "QT202501001")
	a.CustomerPO = "PO-001"
	do := doc(model.DocDeliveryOrder, "DO#202501001")
	do.CustomerPO = "PO-002"
	candidates := []model.Transaction{a, do}

	tests := []struct {
		name     string
		po       string
		selfID   uuid.UUID
		onlyType model.DocumentType
		conflict string
	}{
		{"same PO on another quotation", "PO-001", uuid.New(), "", "QT202501001"},
		{"whitespace is ignored", "  PO-001 ", uuid.New(), "", "QT202501001"},
		{"self is not a conflict", "PO-001", a.ID, "", ""},
		{"type filter", "PO-001", uuid.New(), model.DocDeliveryOrder, ""},
		{"matching type", "PO-002", uuid.New(), model.DocDeliveryOrder, "DO#202501001"},
		{"empty PO never conflicts", "", uuid.New(), "", ""},
		{"fresh PO", "PO-003", uuid.New(), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPurchaseOrder(tt.po, candidates, tt.selfID, tt.onlyType)
			if tt.conflict == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var dup *DuplicatePurchaseOrderError
			if !errors.As(err, &dup) {
				t.Fatalf("expected DuplicatePurchaseOrderError, got %v", err)
			}
			if dup.ConflictDocNumber != tt.conflict {
				t.Errorf("expected conflict %s, got %s", tt.conflict, dup.ConflictDocNumber)
			}
		})
	}
}

func TestDuplicatePurchaseOrderMessage(t *testing.T) {
	a := doc(model.DocQuotation, "QT202501001")
	a.CustomerPO = "PO-001"
	err := CheckPurchaseOrder("PO-001", []model.Transaction{a}, uuid.New(), "")

	want := `PO Number "PO-001" already used in Quotation QT202501001`
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
	if !errors.Is(err, ErrDuplicatePurchaseOrder) {
		t.Error("expected errors.Is ErrDuplicatePurchaseOrder")
	}
}

func TestMatchReference(t *testing.T) {
	clientA, clientB := uuid.New(), uuid.New()

	newer := doc(model.DocDeliveryOrder, "DO#202501002")
	newer.ClientID = clientA
	newer.CustomerPO = "PO-OTHER"
	poMatch := doc(model.DocDeliveryOrder, "DO#202501001")
	poMatch.ClientID = clientA
	poMatch.CustomerPO = "PO-001"
	foreign := doc(model.DocDeliveryOrder, "DO#202501003")
	foreign.ClientID = clientB
	foreign.CustomerPO = "PO-001"

	candidates := []model.Transaction{foreign, newer, poMatch}

	tests := []struct {
		name     string
		clientID uuid.UUID
		po       string
		want     string
		kind     MatchKind
	}{
		{"po match beats recency", clientA, "PO-001", "DO#202501001", MatchPO},
		{"client fallback picks first", clientA, "PO-404", "DO#202501002", MatchClient},
		{"client fallback without PO", clientA, "", "DO#202501002", MatchClient},
		{"other client only", uuid.New(), "PO-001", "", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := MatchReference(candidates, tt.clientID, tt.po)
			if kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, kind)
			}
			number := ""
			if got != nil {
				number = got.DocNumber
			}
			if number != tt.want {
				t.Errorf("expected %q, got %q", tt.want, number)
			}
		})
	}
}

func TestBuildDraftInvoice(t *testing.T) {
	source := doc(model.DocQuotation, "QT202501001")
	source.ClientID = uuid.New()
	source.CustomerPO = "PO-001"
	source.Terms = "50% DP"
	ref := doc(model.DocDeliveryOrder, "DO#202501004")
	issue := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)

	draft := BuildDraft(&source, DraftInput{
		Target:    model.DocInvoice,
		DocNumber: "INV202501001",
		IssueDate: issue,
		DORef:     &ref,
		DOMatch:   MatchPO,
	})

	tx := draft.Transaction
	if tx.Status != model.StatusUnpaid {
		t.Errorf("expected Unpaid, got %s", tx.Status)
	}
	if tx.Terms != "50% DP" || tx.CustomerPO != "PO-001" || tx.ClientID != source.ClientID {
		t.Errorf("source fields not copied: %+v", tx)
	}
	meta := tx.InvoiceMeta.Data()
	if meta.DueDate != "2025-02-19" {
		t.Errorf("expected due date 2025-02-19, got %s", meta.DueDate)
	}
	if meta.DORef != "DO#202501004" || meta.BASTRef != "" {
		t.Errorf("unexpected refs %+v", meta)
	}
	if draft.DORefMatch != MatchPO || draft.BASTRefMatch != MatchNone {
		t.Errorf("unexpected match kinds %s/%s", draft.DORefMatch, draft.BASTRefMatch)
	}
	if draft.SourceID != source.ID {
		t.Error("draft must reference its source")
	}
}

func TestBuildDraftDeliveryOrder(t *testing.T) {
	source := doc(model.DocQuotation, "QT202501001")
	source.Terms = "net 30"

	draft := BuildDraft(&source, DraftInput{Target: model.DocDeliveryOrder, DocNumber: "DO#202501001", IssueDate: jan2025})

	if draft.Transaction.Status != model.StatusDraft {
		t.Errorf("expected Draft, got %s", draft.Transaction.Status)
	}
	if draft.Transaction.Terms != "" {
		t.Error("DO drafts carry no terms")
	}
	if draft.Transaction.InvoiceMeta.Data().DueDate != "" {
		t.Error("DO drafts carry no invoice meta")
	}
}

func TestCheckStatusChange(t *testing.T) {
	quotation := doc(model.DocQuotation, "QT202501001")
	confirmed := doc(model.DocQuotation, "QT202501002")
	confirmed.CustomerPO = "PO-1"
	confirmed.Status = model.StatusPO
	invoice := doc(model.DocInvoice, "INV202501001")
	do := doc(model.DocDeliveryOrder, "DO#202501001")

	tests := []struct {
		name    string
		tx      *model.Transaction
		status  model.TransactionStatus
		wantErr bool
	}{
		{"quotation sent", &quotation, model.StatusSent, false},
		{"quotation rejected", &quotation, model.StatusRejected, false},
		{"quotation PO only via confirmation", &quotation, model.StatusPO, true},
		{"confirmed quotation is frozen", &confirmed, model.StatusDraft, true},
		{"invoice paid", &invoice, model.StatusPaid, false},
		{"invoice draft", &invoice, model.StatusDraft, true},
		{"DO sent", &do, model.StatusSent, false},
		{"DO paid", &do, model.StatusPaid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStatusChange(tt.tx, tt.status)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCheckInvoiceStatus(t *testing.T) {
	invoice := doc(model.DocInvoice, "INV202501001")
	quotation := doc(model.DocQuotation, "QT202501001")

	if err := CheckInvoiceStatus(&invoice, model.StatusPaid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckInvoiceStatus(&invoice, model.StatusSent); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := CheckInvoiceStatus(&quotation, model.StatusPaid); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCheckDeletable(t *testing.T) {
	open := doc(model.DocQuotation, "QT202501001")
	confirmed := doc(model.DocQuotation, "QT202501002")
	confirmed.CustomerPO = "PO-001"
	do := doc(model.DocDeliveryOrder, "DO#202501001")
	do.CustomerPO = "PO-001"

	if err := CheckDeletable(&open); err != nil {
		t.Errorf("quotation without PO is deletable, got %v", err)
	}
	if err := CheckDeletable(&confirmed); !errors.Is(err, ErrConfirmedQuotation) {
		t.Errorf("expected ErrConfirmedQuotation, got %v", err)
	}
	if err := CheckDeletable(&do); err != nil {
		t.Errorf("DO with PO is deletable, got %v", err)
	}
}

func TestCheckItemCategories(t *testing.T) {
	items := []model.TransactionItem{{Category: ""}, {Category: model.CategoryGoods}}
	if err := CheckItemCategories(model.DocDeliveryOrder, items, resolvedOf(items)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Category != model.CategoryGoods {
		t.Errorf("empty category must be locked to Barang, got %q", items[0].Category)
	}

	mixed := []model.TransactionItem{{Category: model.CategoryGoods}}
	err := CheckItemCategories(model.DocHandoverProtocol, mixed, resolvedOf(mixed))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "items[0].category" {
		t.Errorf("unexpected field %s", verr.Field)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	driver := errors.New("connection reset")
	err := error(&StorageError{Op: "create transaction", Err: driver})

	if !errors.Is(err, ErrStorage) {
		t.Error("expected errors.Is ErrStorage")
	}
	if !errors.Is(err, driver) {
		t.Error("driver error must stay reachable")
	}
}
