package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"
)

type ReportService struct {
	store store.Store
}

func NewReportService(s store.Store) *ReportService {
	return &ReportService{store: s}
}

type RevenueReport struct {
	From     time.Time          `json:"from"`
	To       time.Time          `json:"to"`
	Total    float64            `json:"total"`
	Count    int                `json:"count"`
	ByMethod map[string]float64 `json:"by_method"`
}

// Revenue folds over the receipts whose payment date falls in [from, to].
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	var receipts []models.Receipt
	if err := s.store.Query(ctx, store.CollectionReceipts, store.Query{}, &receipts); err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}

	report := &RevenueReport{
		From:     from,
		To:       to,
		ByMethod: make(map[string]float64),
	}
	for _, r := range receipts {
		if r.PaidAt.Before(from) || r.PaidAt.After(to) {
			continue
		}
		report.Total += r.Amount
		report.Count++
		report.ByMethod[r.Method] += r.Amount
	}
	return report, nil
}

type OutstandingReport struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Outstanding sums the bills still owed (pending and overdue).
func (s *ReportService) Outstanding(ctx context.Context) (*OutstandingReport, error) {
	report := &OutstandingReport{}
	for _, status := range []string{models.BillStatusPending, models.BillStatusOverdue} {
		var bills []models.Bill
		q := store.Query{Filters: []store.Filter{{Field: "status", Value: status}}}
		if err := s.store.Query(ctx, store.CollectionBills, q, &bills); err != nil {
			return nil, fmt.Errorf("failed to load %s bills: %w", status, err)
		}
		for _, b := range bills {
			report.Total += b.Amount
			report.Count++
		}
	}
	return report, nil
}
