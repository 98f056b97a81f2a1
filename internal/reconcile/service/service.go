// Package service assembles the billing table from the independently
// sourced record sets. Reconciliation is append-only: supplemental rows are
// widened and added after the declared rows, never merged into them, so a
// location present in both sources ends up with all of its rows intact.
package service

import (
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
)

type Service interface {
	Reconcile(declared []billingdomain.BillingRecord, bingo []billingdomain.BingoSupplementRecord) []billingdomain.BillingRecord
}

type service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) Service {
	return &service{logger: logger.Named("reconcile.service")}
}

func (s *service) Reconcile(declared []billingdomain.BillingRecord, bingo []billingdomain.BingoSupplementRecord) []billingdomain.BillingRecord {
	table := make([]billingdomain.BillingRecord, 0, len(declared)+len(bingo))
	table = append(table, declared...)
	for _, rec := range bingo {
		table = append(table, rec.AsBillingRecord())
	}

	s.logger.Info("billing table assembled",
		zap.Int("declared_rows", len(declared)),
		zap.Int("supplement_rows", len(bingo)),
		zap.Int("total_rows", len(table)))
	return table
}
