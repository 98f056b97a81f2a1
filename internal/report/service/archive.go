package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	companydomain "github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/config"
	"github.com/andeslabs/facturador/internal/report/domain"
)

// ArchiveRequest is one company's full render job: the assembled billing
// table plus the aggregation that fixes location order and counts.
type ArchiveRequest struct {
	Company     companydomain.Company
	Contract    string
	Table       []billingdomain.BillingRecord
	Aggregation billingdomain.Aggregation
}

// ArchiveResult is the finished deliverable. Failed lists the join keys
// whose invoices could not be rendered; their absence from the archive is
// tolerated as long as at least one invoice succeeded. ParseWarnings counts
// net-sales cells that would not parse across all paginated locations.
type ArchiveResult struct {
	Name          string
	Data          []byte
	Rendered      int
	Failed        []string
	ParseWarnings int
}

type Service interface {
	BuildArchive(ctx context.Context, req ArchiveRequest) (*ArchiveResult, error)
}

type service struct {
	renderer    Renderer
	layout      domain.Layout
	parallelism int
	logger      *zap.Logger
}

func NewService(renderer Renderer, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		renderer:    renderer,
		layout:      domain.DefaultLayout(),
		parallelism: cfg.Render.Parallelism,
		logger:      logger.Named("report.service"),
	}
}

// BuildArchive renders every location's invoice and bundles them into one
// ZIP. Locations render concurrently up to the configured bound; entries
// are written in the aggregation's location order regardless of which
// render finishes first.
func (s *service) BuildArchive(ctx context.Context, req ArchiveRequest) (*ArchiveResult, error) {
	groups := groupByLocation(req.Table)
	summaries := req.Aggregation.Summaries
	if len(summaries) == 0 {
		return nil, billingdomain.ErrNoData
	}

	type rendered struct {
		pdf      []byte
		warnings int
		err      error
	}
	results := make([]rendered, len(summaries))

	sem := make(chan struct{}, s.parallelism)
	var wg sync.WaitGroup
	for i, summary := range summaries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, summary billingdomain.LocationSummary) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].pdf, results[i].warnings, results[i].err = s.renderLocation(req, summary, groups[summary.JoinKey])
		}(i, summary)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		buf      bytes.Buffer
		failed   []string
		count    int
		warnings int
		nameSeqs = map[string]int{}
	)
	w := zip.NewWriter(&buf)
	for i, summary := range summaries {
		warnings += results[i].warnings
		if results[i].err != nil {
			s.logger.Warn("invoice skipped",
				zap.String("location", summary.JoinKey),
				zap.Error(results[i].err))
			failed = append(failed, summary.JoinKey)
			continue
		}
		name := locationDisplayName(groups[summary.JoinKey], summary.JoinKey)
		nameSeqs[name]++
		entry, err := w.Create(InvoiceEntryName(name, nameSeqs[name]))
		if err != nil {
			return nil, fmt.Errorf("create archive entry for %s: %w", summary.JoinKey, err)
		}
		if _, err := entry.Write(results[i].pdf); err != nil {
			return nil, fmt.Errorf("write archive entry for %s: %w", summary.JoinKey, err)
		}
		count++
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: %d locations failed", billingdomain.ErrNoRenderableLocations, len(failed))
	}

	s.logger.Info("archive assembled",
		zap.String("company", req.Company.Name),
		zap.Int("invoices", count),
		zap.Int("failed", len(failed)))

	return &ArchiveResult{
		Name:          ArchiveName(req.Company.Name, req.Contract),
		Data:          buf.Bytes(),
		Rendered:      count,
		Failed:        failed,
		ParseWarnings: warnings,
	}, nil
}

func (s *service) renderLocation(req ArchiveRequest, summary billingdomain.LocationSummary, rows []billingdomain.BillingRecord) ([]byte, int, error) {
	loc := LocationFromRows(summary.JoinKey, rows, summary.InventoryCount)
	doc, err := Paginate(s.layout, loc, rows)
	if err != nil {
		return nil, 0, err
	}
	pdf, err := s.renderer.Render(doc, req.Company, req.Contract)
	return pdf, doc.ParseWarnings, err
}

func groupByLocation(table []billingdomain.BillingRecord) map[string][]billingdomain.BillingRecord {
	groups := make(map[string][]billingdomain.BillingRecord)
	for _, rec := range table {
		key := rec.Key()
		if key == "" {
			key = billingdomain.DegenerateJoinKey
		}
		groups[key] = append(groups[key], rec)
	}
	return groups
}

func locationDisplayName(rows []billingdomain.BillingRecord, joinKey string) string {
	if len(rows) > 0 && rows[0].LocationName != "" && rows[0].LocationName != billingdomain.Placeholder {
		return rows[0].LocationName
	}
	return joinKey
}
