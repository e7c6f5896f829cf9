package service

import (
	"time"

	"go-erp-docs/internal/repository"
)

const recentTransactionLimit = 5

// DashboardOverview is the dashboard's counters plus the latest documents
type DashboardOverview struct {
	repository.DashboardStats
	OnlineClients      int                   `json:"online_clients"`
	RecentTransactions []TransactionListItem `json:"recent_transactions"`
}

// Presence reports how many realtime clients are connected
type Presence interface {
	ClientCount() int
}

type DashboardService interface {
	GetDocumentMovement(days int) ([]repository.DocumentMovementData, error)
	GetDashboardStats() (*DashboardOverview, error)
}

type dashboardService struct {
	txRepo   repository.TransactionRepository
	presence Presence
}

// presence may be nil, online_clients is then always 0
func NewDashboardService(txRepo repository.TransactionRepository, presence Presence) DashboardService {
	return &dashboardService{txRepo: txRepo, presence: presence}
}

func (s *dashboardService) GetDocumentMovement(days int) ([]repository.DocumentMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetDocumentMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardOverview, error) {
	stats, err := s.txRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	recent, err := s.txRepo.List(repository.TransactionFilter{WithItems: true, Limit: recentTransactionLimit})
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		DashboardStats:     *stats,
		RecentTransactions: make([]TransactionListItem, len(recent)),
	}
	for i, t := range recent {
		overview.RecentTransactions[i] = toListItem(t)
	}
	if s.presence != nil {
		overview.OnlineClients = s.presence.ClientCount()
	}
	return overview, nil
}
