package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gatewise/escrowd/internal/domain"
)

// DenomTotal represents the escrowed holdings of one denomination
type DenomTotal struct {
	Denom   string
	Total   decimal.Decimal
	Pending int
}

// CustodyReportResult represents the expected holdings of the custody account
type CustodyReportResult struct {
	Denominations []DenomTotal
	PendingTotal  int
}

// ReportService handles read-only custody reconciliation reports
type ReportService struct {
	TransferRepo domain.TransferRepository
}

// NewReportService creates a new ReportService instance
func NewReportService(transferRepo domain.TransferRepository) *ReportService {
	return &ReportService{TransferRepo: transferRepo}
}

// CustodyReport aggregates pending transfers into per-denomination totals
// Logic:
//   - Every pending transfer has its amount held by the custody account
//   - Per denomination: sum of pending amounts and pending count
//   - Denominations are sorted for stable output
func (s *ReportService) CustodyReport(ctx context.Context) (*CustodyReportResult, error) {
	transfers, err := s.TransferRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}

	totals := make(map[string]*DenomTotal)
	for _, transfer := range transfers {
		entry, ok := totals[transfer.Denom]
		if !ok {
			entry = &DenomTotal{Denom: transfer.Denom, Total: decimal.Zero}
			totals[transfer.Denom] = entry
		}
		entry.Total = entry.Total.Add(transfer.Amount)
		entry.Pending++
	}

	denominations := make([]DenomTotal, 0, len(totals))
	for _, entry := range totals {
		denominations = append(denominations, *entry)
	}
	sort.Slice(denominations, func(i, j int) bool {
		return denominations[i].Denom < denominations[j].Denom
	})

	return &CustodyReportResult{
		Denominations: denominations,
		PendingTotal:  len(transfers),
	}, nil
}
