// Package service computes the per-location tax aggregates from the
// assembled billing table.
package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
)

// adminFeeFactor is the fixed 1% administrative surcharge applied to each
// location's exploitation-rights total.
var adminFeeFactor = decimal.NewFromFloat(1.01)

type Service interface {
	Aggregate(table []billingdomain.BillingRecord, inventory []billingdomain.InventoryRecord) billingdomain.Aggregation
}

type service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) Service {
	return &service{logger: logger.Named("aggregate.service")}
}

func (s *service) Aggregate(table []billingdomain.BillingRecord, inventory []billingdomain.InventoryRecord) billingdomain.Aggregation {
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	warnings := 0

	for _, rec := range table {
		key := rec.Key()
		if key == "" {
			key = billingdomain.DegenerateJoinKey
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		amount, ok := billingdomain.ParseAmount(rec.ExploitationRights)
		if !ok {
			warnings++
		}
		sums[key] = sums[key].Add(amount)
	}

	counts := make(map[string]int, len(inventory))
	for _, rec := range inventory {
		counts[rec.Key()]++
	}

	sortKeys(order)

	summaries := make([]billingdomain.LocationSummary, 0, len(order))
	grandTotal := int64(0)
	for _, key := range order {
		sum := sums[key]
		// The surcharge is applied to the exact sum and rounded once;
		// rounding the sum first would drift on fractional inputs.
		adjusted := sum.Mul(adminFeeFactor).Round(0).IntPart()
		summaries = append(summaries, billingdomain.LocationSummary{
			JoinKey:               key,
			SumExploitationRights: sum.Round(0).IntPart(),
			AdjustedTotal:         adjusted,
			InventoryCount:        counts[key],
			Degenerate:            key == billingdomain.DegenerateJoinKey,
		})
		// The grand total sums the already-rounded location totals so it
		// always matches what the summary sheet shows.
		grandTotal += adjusted
	}

	s.logger.Info("aggregation complete",
		zap.Int("locations", len(summaries)),
		zap.Int64("grand_total", grandTotal),
		zap.Int("parse_warnings", warnings))

	return billingdomain.Aggregation{
		Summaries:       summaries,
		GrandTotal:      grandTotal,
		InventoryCounts: counts,
		ParseWarnings:   warnings,
	}
}

// sortKeys orders join keys Spanish-aware, with the placeholder group
// always last.
func sortKeys(keys []string) {
	billingdomain.SortSpanish(keys)
	for i, key := range keys {
		if key == billingdomain.DegenerateJoinKey {
			copy(keys[i:], keys[i+1:])
			keys[len(keys)-1] = billingdomain.DegenerateJoinKey
			break
		}
	}
}
