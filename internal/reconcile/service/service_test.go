package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
)

func TestReconcileAppendsSupplementAfterDeclared(t *testing.T) {
	svc := NewService(zap.NewNop())

	declared := []billingdomain.BillingRecord{
		{Serial: "SR-1", LocationCode: "100", LocationName: "CASINO RIO", ExploitationRights: "1000"},
		{Serial: "SR-2", LocationCode: "100", LocationName: "CASINO RIO", ExploitationRights: "2000"},
	}
	bingo := []billingdomain.BingoSupplementRecord{
		{LocationCode: "100", LocationName: "CASINO RIO", ExploitationRights: "500"},
	}

	table := svc.Reconcile(declared, bingo)
	require.Len(t, table, 3, "a location in both sources keeps every row")

	assert.Equal(t, declared[0], table[0])
	assert.Equal(t, declared[1], table[1])

	last := table[2]
	assert.Equal(t, "500", last.ExploitationRights)
	assert.Equal(t, billingdomain.Placeholder, last.Serial)
	assert.Equal(t, table[0].Key(), last.Key(), "same location groups under one key")
}

func TestReconcileEmptySupplement(t *testing.T) {
	svc := NewService(zap.NewNop())

	declared := []billingdomain.BillingRecord{{Serial: "SR-1", LocationCode: "1", LocationName: "A"}}

	table := svc.Reconcile(declared, nil)
	assert.Equal(t, declared, table)
}

func TestReconcileSupplementOnly(t *testing.T) {
	svc := NewService(zap.NewNop())

	bingo := []billingdomain.BingoSupplementRecord{
		{LocationCode: "200", LocationName: "BINGO NORTE", ExploitationRights: "250000"},
	}

	table := svc.Reconcile(nil, bingo)
	require.Len(t, table, 1)
	assert.Equal(t, "200 BINGO NORTE", table[0].Key())
}
