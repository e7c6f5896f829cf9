package service

import (
	"testing"

	"go-erp-docs/internal/model"
)

type fakePresence int

func (p fakePresence) ClientCount() int { return int(p) }

func TestDashboardStats(t *testing.T) {
	client := &model.Client{Name: "PT Maju"}
	repo := newFakeTxRepo(
		quotation(client, "QT202501001", "PO-1", lineItem(model.CategoryGoods, 1, 100)),
		quotation(client, "QT202501002", ""),
		derivedDoc(model.DocInvoice, client, "INV202501001", "PO-1", jan15),
	)

	overview, err := NewDashboardService(repo, fakePresence(3)).GetDashboardStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if overview.TotalQuotations != 2 || overview.ConfirmedPO != 1 || overview.UnpaidInvoices != 1 {
		t.Errorf("unexpected counters %+v", overview.DashboardStats)
	}
	if overview.OnlineClients != 3 {
		t.Errorf("expected 3 online clients, got %d", overview.OnlineClients)
	}
	if len(overview.RecentTransactions) != 3 {
		t.Errorf("expected 3 recent transactions, got %d", len(overview.RecentTransactions))
	}
}

func TestDashboardStatsWithoutPresence(t *testing.T) {
	overview, err := NewDashboardService(newFakeTxRepo(), nil).GetDashboardStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if overview.OnlineClients != 0 {
		t.Errorf("expected 0 online clients, got %d", overview.OnlineClients)
	}
}
