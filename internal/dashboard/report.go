package dashboard

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dompet/internal/aggregate"
	"dompet/internal/cache"
	apperrors "dompet/internal/errors"
	"dompet/internal/export"
	"dompet/internal/models"
	"dompet/internal/period"
	"dompet/internal/report"
	"dompet/internal/services"
	"dompet/internal/storage"
)

// Export formats of the printable document.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// File is a generated export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// AdviceResult is the advice endpoint payload. Available is false whenever
// the advice service is not configured or failed.
type AdviceResult struct {
	Available   bool                    `json:"available"`
	Suggestions []string                `json:"suggestions"`
	Summary     aggregate.AdviceSummary `json:"summary"`
}

// Report runs a report table query, from cache when possible.
func (s *Service) Report(ctx context.Context, userID string, q report.Query) (*report.View, error) {
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}

	key := cache.Key(userID, "report", queryParams(q)...)
	var cached report.View
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.gens.current(userID)
	view, _, err := s.runReport(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, userID, gen, key, view)
	return view, nil
}

func (s *Service) runReport(ctx context.Context, userID string, q report.Query) (*report.View, report.Lookup, error) {
	// Dates are pushed down to the query; the remaining predicates run in memory.
	in, err := s.load(ctx, userID, services.TransactionFilter{FromDate: q.Filter.From, ToDate: q.Filter.To}, false)
	if err != nil {
		return nil, report.Lookup{}, err
	}

	lookup := report.NewLookup(in.Categories, in.BankAccounts)
	view := report.Run(in.Transactions, q, lookup)
	return &view, lookup, nil
}

// ExportCSV renders every transaction matching q as CSV. Pagination is ignored.
func (s *Service) ExportCSV(ctx context.Context, userID string, q report.Query) (*File, error) {
	view, lookup, err := s.runReport(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, view.Sorted, lookup); err != nil {
		s.logger.Error("csv export failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, err)
	}

	file := &File{
		Name:        s.fileName("csv"),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}
	s.archiveFile(ctx, userID, file)
	return file, nil
}

// ExportDocument renders every transaction matching q as a printable
// document, as HTML or, when a PDF renderer is configured, as PDF.
func (s *Service) ExportDocument(ctx context.Context, userID string, q report.Query, format string) (*File, error) {
	if format == "" {
		format = FormatHTML
	}
	if format != FormatHTML && format != FormatPDF {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be html or pdf")
	}
	if format == FormatPDF && s.pdf == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "PDF export is not enabled")
	}

	view, lookup, err := s.runReport(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = export.RenderDocument(&buf, export.Document{
		GeneratedAt:       s.now(),
		FilterDescription: export.DescribeFilter(q.Filter, lookup),
		Transactions:      view.Sorted,
		Totals:            view.Totals,
	}, lookup)
	if err != nil {
		s.logger.Error("document export failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, err)
	}

	file := &File{
		Name:        s.fileName("html"),
		ContentType: "text/html; charset=utf-8",
		Data:        buf.Bytes(),
	}
	if format == FormatPDF {
		pdf, err := s.pdf.RenderPDF(ctx, buf.Bytes())
		if err != nil {
			s.logger.Error("pdf export failed", zap.String("user_id", userID), zap.Error(err))
			return nil, apperrors.Wrap(apperrors.ErrExportFailed, err)
		}
		file = &File{Name: s.fileName("pdf"), ContentType: "application/pdf", Data: pdf}
	}

	s.archiveFile(ctx, userID, file)
	return file, nil
}

// Advice asks the advice service about the current month. Only a failure
// to load the user's data is an error.
func (s *Service) Advice(ctx context.Context, userID string) (*AdviceResult, error) {
	now := s.now()
	month := period.MonthRange(now, 0)
	expense := models.CategoryTypeExpense

	var (
		txs  []models.Transaction
		cats []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.transactions.ListTransactions(gctx, userID, services.TransactionFilter{FromDate: &month.Start, ToDate: &month.End})
		return err
	})
	g.Go(func() (err error) {
		cats, err = s.categories.ListCategories(gctx, userID, &expense)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := aggregate.AdviceInput(txs, cats, now)
	result := &AdviceResult{Summary: summary, Suggestions: []string{}}

	adviceCtx, cancel := context.WithTimeout(ctx, s.adviceTimeout)
	defer cancel()

	suggestions, err := s.advisor.Suggest(adviceCtx, summary)
	if err != nil {
		s.logger.Info("advice unavailable", zap.String("user_id", userID), zap.Error(err))
		return result, nil
	}
	result.Available = true
	result.Suggestions = suggestions
	return result, nil
}

func (s *Service) archiveFile(ctx context.Context, userID string, file *File) {
	key := storage.ExportKey(userID, s.clock(), file.Name)
	if err := s.archive.Put(ctx, key, file.ContentType, file.Data); err != nil {
		s.logger.Warn("failed to archive export", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) fileName(ext string) string {
	return "transaksi-" + s.now().Format("20060102-150405") + "." + ext
}

func queryParams(q report.Query) []string {
	date := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return period.DateKey(*t)
	}
	f := q.Filter
	return []string{
		date(f.From), date(f.To), f.Type, f.CategoryID, f.BankAccountID, f.Search,
		string(q.SortKey), string(q.Direction), strconv.Itoa(q.Page), strconv.Itoa(q.PageSize),
	}
}
