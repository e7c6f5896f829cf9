package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"

	"github.com/google/uuid"
)

// fakeTxRepo is an in-memory TransactionRepository
type fakeTxRepo struct {
	mu      sync.Mutex
	txs     map[uuid.UUID]*model.Transaction
	locks   []string
	atomics int
}

func newFakeTxRepo(seed ...model.Transaction) *fakeTxRepo {
	r := &fakeTxRepo{txs: make(map[uuid.UUID]*model.Transaction)}
	for i := range seed {
		r.put(seed[i])
	}
	return r
}

func clone(t *model.Transaction) model.Transaction {
	cp := *t
	cp.Items = append([]model.TransactionItem(nil), t.Items...)
	return cp
}

func (r *fakeTxRepo) put(t model.Transaction) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := clone(&t)
	r.txs[t.ID] = &cp
}

func (r *fakeTxRepo) sorted(keep func(*model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for _, t := range r.txs {
		if keep(t) {
			out = append(out, clone(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].DocNumber > out[j].DocNumber
	})
	return out
}

func (r *fakeTxRepo) List(filter repository.TransactionFilter) ([]model.Transaction, error) {
	out := r.sorted(func(t *model.Transaction) bool {
		if filter.Type != "" && t.Type != filter.Type {
			return false
		}
		if filter.ClientID != nil && t.ClientID != *filter.ClientID {
			return false
		}
		if filter.WithPO && t.CustomerPO == "" {
			return false
		}
		return true
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTxRepo) ListByType(docType model.DocumentType) ([]model.Transaction, error) {
	return r.List(repository.TransactionFilter{Type: docType})
}

func (r *fakeTxRepo) GetWithItems(id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.txs[id]
	if !ok {
		return nil, &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	cp := clone(t)
	return &cp, nil
}

func (r *fakeTxRepo) FindForUpdate(id uuid.UUID) (*model.Transaction, error) {
	return r.GetWithItems(id)
}

func (r *fakeTxRepo) FindByCustomerPO(po string) ([]model.Transaction, error) {
	return r.sorted(func(t *model.Transaction) bool { return t.CustomerPO == po }), nil
}

func (r *fakeTxRepo) FindByDocNumber(docType model.DocumentType, docNumber string) ([]model.Transaction, error) {
	return r.sorted(func(t *model.Transaction) bool {
		return t.Type == docType && t.DocNumber == docNumber
	}), nil
}

func (r *fakeTxRepo) FindNumbersWithPrefix(docType model.DocumentType, prefix string) ([]model.Transaction, error) {
	return r.sorted(func(t *model.Transaction) bool {
		return t.Type == docType && strings.HasPrefix(t.DocNumber, prefix)
	}), nil
}

func (r *fakeTxRepo) CreateWithItems(t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Items {
		t.Items[i].ID = uuid.New()
		t.Items[i].TransactionID = t.ID
		t.Items[i].Position = i + 1
	}
	r.put(*t)
	return nil
}

func (r *fakeTxRepo) UpdateWithItems(t *model.Transaction) error {
	if _, ok := r.txs[t.ID]; !ok {
		return &document.NotFoundError{Entity: "transaction", ID: t.ID.String()}
	}
	return r.CreateWithItems(t)
}

func (r *fakeTxRepo) UpdateStatus(id uuid.UUID, status model.TransactionStatus, updatedBy string) error {
	t, ok := r.txs[id]
	if !ok {
		return &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	t.Status = status
	t.UpdatedBy = updatedBy
	return nil
}

func (r *fakeTxRepo) SetCustomerPO(id uuid.UUID, po string, status model.TransactionStatus, updatedBy string) error {
	t, ok := r.txs[id]
	if !ok {
		return &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	t.CustomerPO = po
	t.Status = status
	t.UpdatedBy = updatedBy
	return nil
}

func (r *fakeTxRepo) Delete(id uuid.UUID) error {
	t, ok := r.txs[id]
	if !ok {
		return &document.NotFoundError{Entity: "transaction", ID: id.String()}
	}
	if err := document.CheckDeletable(t); err != nil {
		return err
	}
	delete(r.txs, id)
	return nil
}

func (r *fakeTxRepo) LockSequence(docType model.DocumentType, date time.Time) error {
	r.locks = append(r.locks, "seq:"+document.DocPrefix(docType, date))
	return nil
}

func (r *fakeTxRepo) LockPurchaseOrder(po string) error {
	r.locks = append(r.locks, "po:"+po)
	return nil
}

func (r *fakeTxRepo) Atomic(fn func(repo repository.TransactionRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.atomics++
	return fn(r)
}

func (r *fakeTxRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	var stats repository.DashboardStats
	for _, t := range r.txs {
		switch {
		case t.Type == model.DocQuotation:
			stats.TotalQuotations++
			if t.CustomerPO != "" {
				stats.ConfirmedPO++
			}
		case t.Type == model.DocInvoice && t.Status != model.StatusPaid:
			stats.UnpaidInvoices++
		}
	}
	return &stats, nil
}

func (r *fakeTxRepo) GetDocumentMovement(startDate, endDate time.Time) ([]repository.DocumentMovementData, error) {
	return nil, nil
}

type fakeCatalog struct {
	clients  map[uuid.UUID]*model.Client
	products map[uuid.UUID]*model.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		clients:  make(map[uuid.UUID]*model.Client),
		products: make(map[uuid.UUID]*model.Product),
	}
}

func (c *fakeCatalog) addClient(name string) *model.Client {
	client := &model.Client{Name: name}
	client.ID = uuid.New()
	c.clients[client.ID] = client
	return client
}

func (c *fakeCatalog) addProduct(name string, category model.Category) *model.Product {
	p := &model.Product{Name: name, Category: category, Unit: "Pcs"}
	p.ID = uuid.New()
	c.products[p.ID] = p
	return p
}

func (c *fakeCatalog) FindClient(id uuid.UUID) (*model.Client, error) {
	client, ok := c.clients[id]
	if !ok {
		return nil, &document.NotFoundError{Entity: "client", ID: id.String()}
	}
	return client, nil
}

func (c *fakeCatalog) FindProducts(ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	out := make(map[uuid.UUID]*model.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type publishedEvent struct {
	Type string
	Data interface{}
}

type fakeNotifier struct {
	events []publishedEvent
}

func (n *fakeNotifier) Publish(eventType string, data interface{}) {
	n.events = append(n.events, publishedEvent{Type: eventType, Data: data})
}

func (n *fakeNotifier) last() string {
	if len(n.events) == 0 {
		return ""
	}
	return n.events[len(n.events)-1].Type
}
