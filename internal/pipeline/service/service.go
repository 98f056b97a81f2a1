// Package service orchestrates one billing run end to end: ingest the
// operator exports, assemble the billing table, aggregate per location and
// produce the requested deliverable.
package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	aggregateservice "github.com/andeslabs/facturador/internal/aggregate/service"
	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	"github.com/andeslabs/facturador/internal/clock"
	companyservice "github.com/andeslabs/facturador/internal/company/service"
	ingestservice "github.com/andeslabs/facturador/internal/ingest/service"
	"github.com/andeslabs/facturador/internal/observability"
	reconcileservice "github.com/andeslabs/facturador/internal/reconcile/service"
	reportservice "github.com/andeslabs/facturador/internal/report/service"
	"github.com/andeslabs/facturador/internal/staging"
	workbookservice "github.com/andeslabs/facturador/internal/workbook/service"
)

// stagedTableFile is the intermediate JSON kept in the run directory so a
// finished run can be re-rendered without the original uploads.
const stagedTableFile = "facturacion.json"

// Inputs are the uploaded spreadsheets for one run. Bingo is optional.
type Inputs struct {
	Declaration     io.Reader
	DeclarationName string
	Inventory       io.Reader
	InventoryName   string
	Bingo           io.Reader
	BingoName       string
}

// InventoryLocation is one establishment seen in the inventory export.
type InventoryLocation struct {
	JoinKey       string `json:"local"`
	Machines      int    `json:"elementos"`
	BingoContract bool   `json:"contrato_bingo"`
}

// InventoryAnalysis is the standalone inventory inspection result.
type InventoryAnalysis struct {
	Locations     []InventoryLocation `json:"locales"`
	TotalMachines int                 `json:"total_elementos"`
}

// ArchiveOutcome is the result of a full invoice-archive run.
type ArchiveOutcome struct {
	RunID    string
	Name     string
	Path     string
	Data     []byte
	Rendered int
	Failed   []string
}

// stagedTable is the JSON shape persisted per run.
type stagedTable struct {
	Company   string                          `json:"empresa"`
	Contract  string                          `json:"contrato"`
	Table     []billingdomain.BillingRecord   `json:"facturacion"`
	Inventory []billingdomain.InventoryRecord `json:"inventario"`
}

type Service interface {
	AnalyzeInventory(ctx context.Context, inventory io.Reader) (*InventoryAnalysis, error)
	BuildWorkbook(ctx context.Context, in Inputs) ([]byte, error)
	BuildArchive(ctx context.Context, companyName, contract string, in Inputs) (*ArchiveOutcome, error)
	RenderStagedRun(ctx context.Context, runID string) (*ArchiveOutcome, error)
	AlreadyBilled(companyName, contract string) (bool, string, error)
}

type Params struct {
	fx.In

	Ingest    ingestservice.Service
	Reconcile reconcileservice.Service
	Aggregate aggregateservice.Service
	Workbook  workbookservice.Service
	Report    reportservice.Service
	Staging   staging.Store
	Directory companyservice.Directory
	Clock     clock.Clock
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

type service struct {
	ingest    ingestservice.Service
	reconcile reconcileservice.Service
	aggregate aggregateservice.Service
	workbook  workbookservice.Service
	report    reportservice.Service
	staging   staging.Store
	directory companyservice.Directory
	clock     clock.Clock
	metrics   *observability.Metrics
	logger    *zap.Logger
}

func NewService(p Params) Service {
	return &service{
		ingest:    p.Ingest,
		reconcile: p.Reconcile,
		aggregate: p.Aggregate,
		workbook:  p.Workbook,
		report:    p.Report,
		staging:   p.Staging,
		directory: p.Directory,
		clock:     p.Clock,
		metrics:   p.Metrics,
		logger:    p.Logger.Named("pipeline.service"),
	}
}

func (s *service) AnalyzeInventory(ctx context.Context, inventory io.Reader) (*InventoryAnalysis, error) {
	records, err := s.ingest.ReadInventory(inventory)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	bingo := make(map[string]bool)
	keys := make([]string, 0)
	for _, rec := range records {
		key := rec.Key()
		if _, seen := counts[key]; !seen {
			keys = append(keys, key)
		}
		counts[key]++
		if rec.IsBingoContract() {
			bingo[key] = true
		}
	}
	billingdomain.SortSpanish(keys)

	analysis := &InventoryAnalysis{TotalMachines: len(records)}
	for _, key := range keys {
		analysis.Locations = append(analysis.Locations, InventoryLocation{
			JoinKey:       key,
			Machines:      counts[key],
			BingoContract: bingo[key],
		})
	}
	return analysis, nil
}

// assemble runs ingest and reconciliation over the uploads. The inventory
// records ride along for counts and the staged JSON.
func (s *service) assemble(in Inputs) ([]billingdomain.BillingRecord, []billingdomain.InventoryRecord, billingdomain.Aggregation, error) {
	declared, err := s.ingest.ReadDeclaration(in.Declaration)
	if err != nil {
		return nil, nil, billingdomain.Aggregation{}, fmt.Errorf("declaration: %w", err)
	}
	inventory, err := s.ingest.ReadInventory(in.Inventory)
	if err != nil {
		return nil, nil, billingdomain.Aggregation{}, fmt.Errorf("inventory: %w", err)
	}

	var bingo []billingdomain.BingoSupplementRecord
	if in.Bingo != nil {
		bingo, err = s.ingest.ReadBingoSupplement(in.Bingo, in.BingoName)
		if err != nil {
			return nil, nil, billingdomain.Aggregation{}, fmt.Errorf("bingo supplement: %w", err)
		}
	}

	table := s.reconcile.Reconcile(declared, bingo)
	agg := s.aggregate.Aggregate(table, inventory)
	if agg.ParseWarnings > 0 {
		s.metrics.ParseWarnings.Add(float64(agg.ParseWarnings))
	}
	return table, inventory, agg, nil
}

func (s *service) BuildWorkbook(ctx context.Context, in Inputs) ([]byte, error) {
	start := s.clock.Now(ctx)

	table, _, agg, err := s.assemble(in)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	data, err := s.workbook.Build(table, agg)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.observeRun(ctx, start, "ok")
	return data, nil
}

func (s *service) BuildArchive(ctx context.Context, companyName, contract string, in Inputs) (*ArchiveOutcome, error) {
	start := s.clock.Now(ctx)

	company, err := s.directory.ByName(companyName)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	run, err := s.staging.NewRun()
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	defer run.Cleanup()

	table, inventory, agg, err := s.assemble(in)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := run.SaveJSON(stagedTableFile, stagedTable{
		Company:   company.Name,
		Contract:  contract,
		Table:     table,
		Inventory: inventory,
	}); err != nil {
		s.logger.Warn("staging snapshot failed", zap.String("run_id", run.ID), zap.Error(err))
	}

	outcome, err := s.renderArchive(ctx, run.ID, company.Name, contract, table, agg)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	s.observeRun(ctx, start, "ok")
	return outcome, nil
}

// RenderStagedRun rebuilds the archive from a run's staged JSON, for runs
// whose directory was kept.
func (s *service) RenderStagedRun(ctx context.Context, runID string) (*ArchiveOutcome, error) {
	run, err := s.staging.OpenRun(runID)
	if err != nil {
		return nil, err
	}

	var staged stagedTable
	if err := run.LoadJSON(stagedTableFile, &staged); err != nil {
		return nil, err
	}
	agg := s.aggregate.Aggregate(staged.Table, staged.Inventory)
	return s.renderArchive(ctx, runID, staged.Company, staged.Contract, staged.Table, agg)
}

func (s *service) renderArchive(ctx context.Context, runID, companyName, contract string, table []billingdomain.BillingRecord, agg billingdomain.Aggregation) (*ArchiveOutcome, error) {
	company, err := s.directory.ByName(companyName)
	if err != nil {
		return nil, err
	}

	result, err := s.report.BuildArchive(ctx, reportservice.ArchiveRequest{
		Company:     company,
		Contract:    contract,
		Table:       table,
		Aggregation: agg,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.InvoicesRendered.Add(float64(result.Rendered))
	s.metrics.RenderFailures.Add(float64(len(result.Failed)))
	if result.ParseWarnings > 0 {
		s.metrics.ParseWarnings.Add(float64(result.ParseWarnings))
	}

	path, err := s.staging.SaveArchive(result.Name, result.Data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("archive run finished",
		zap.String("run_id", runID),
		zap.String("company", company.Name),
		zap.String("contract", contract),
		zap.String("archive", result.Name),
		zap.Int("invoices", result.Rendered),
		zap.Int("failed", len(result.Failed)))

	return &ArchiveOutcome{
		RunID:    runID,
		Name:     result.Name,
		Path:     path,
		Data:     result.Data,
		Rendered: result.Rendered,
		Failed:   result.Failed,
	}, nil
}

func (s *service) AlreadyBilled(companyName, contract string) (bool, string, error) {
	company, err := s.directory.ByName(companyName)
	if err != nil {
		return false, "", err
	}
	name := reportservice.ArchiveName(company.Name, contract)
	return s.staging.AlreadyBilled(name), name, nil
}

func (s *service) observeRun(ctx context.Context, start time.Time, outcome string) {
	s.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	s.metrics.RunDuration.Observe(s.clock.Now(ctx).Sub(start).Seconds())
}
