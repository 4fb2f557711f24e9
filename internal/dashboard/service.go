// Package dashboard orchestrates the reporting pipeline for one user: it
// fetches the user's data concurrently, runs the pure aggregation and report
// packages over it, and caches the resulting view models until a mutation
// invalidates them.
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dompet/internal/advice"
	"dompet/internal/aggregate"
	"dompet/internal/cache"
	"dompet/internal/export"
	"dompet/internal/models"
	"dompet/internal/money"
	"dompet/internal/period"
	"dompet/internal/report"
	"dompet/internal/services"
	"dompet/internal/storage"
)

// TransactionLister fetches a user's transactions.
type TransactionLister interface {
	ListTransactions(ctx context.Context, userID string, filter services.TransactionFilter) ([]models.Transaction, error)
}

// CategoryLister fetches a user's categories.
type CategoryLister interface {
	ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error)
}

// BankAccountLister fetches a user's bank accounts.
type BankAccountLister interface {
	ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error)
}

// AssetLister fetches a user's assets.
type AssetLister interface {
	ListAssets(ctx context.Context, userID string) ([]models.Asset, error)
}

// Servicer is the contract handlers depend on.
type Servicer interface {
	Dashboard(ctx context.Context, userID, token string) (*View, error)
	Recompute(ctx context.Context, userID, token string) (*View, error)
	Report(ctx context.Context, userID string, q report.Query) (*report.View, error)
	ExportCSV(ctx context.Context, userID string, q report.Query) (*File, error)
	ExportDocument(ctx context.Context, userID string, q report.Query, format string) (*File, error)
	Advice(ctx context.Context, userID string) (*AdviceResult, error)
	Invalidate(ctx context.Context, userID string)
}

var _ Servicer = (*Service)(nil)

// Deps are the collaborators of a Service. Transactions, Categories,
// BankAccounts and Assets are required; the rest have defaults.
type Deps struct {
	Transactions TransactionLister
	Categories   CategoryLister
	BankAccounts BankAccountLister
	Assets       AssetLister

	Cache         cache.Store
	CacheTTL      time.Duration
	Advisor       advice.Advisor
	AdviceTimeout time.Duration
	Archive       storage.Archive
	PDF           export.PDFRenderer

	Clock    func() time.Time
	Location *time.Location
	PageSize int
	Logger   *zap.Logger
}

// Service computes dashboards, reports, exports and advice.
type Service struct {
	transactions TransactionLister
	categories   CategoryLister
	bankAccounts BankAccountLister
	assets       AssetLister

	cache         cache.Store
	cacheTTL      time.Duration
	advisor       advice.Advisor
	adviceTimeout time.Duration
	archive       storage.Archive
	pdf           export.PDFRenderer

	clock    func() time.Time
	loc      *time.Location
	pageSize int
	logger   *zap.Logger

	gens *generations
}

// NewService creates a Service, filling in defaults for optional collaborators.
func NewService(d Deps) *Service {
	s := &Service{
		transactions:  d.Transactions,
		categories:    d.Categories,
		bankAccounts:  d.BankAccounts,
		assets:        d.Assets,
		cache:         d.Cache,
		cacheTTL:      d.CacheTTL,
		advisor:       d.Advisor,
		adviceTimeout: d.AdviceTimeout,
		archive:       d.Archive,
		pdf:           d.PDF,
		clock:         d.Clock,
		loc:           d.Location,
		pageSize:      d.PageSize,
		logger:        d.Logger,
		gens:          newGenerations(),
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryStore()
	}
	if s.cacheTTL == 0 {
		s.cacheTTL = 5 * time.Minute
	}
	if s.advisor == nil {
		s.advisor = advice.NopAdvisor{}
	}
	if s.adviceTimeout == 0 {
		s.adviceTimeout = 20 * time.Second
	}
	if s.archive == nil {
		s.archive = storage.NopArchive{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.pageSize <= 0 {
		s.pageSize = report.DefaultPageSize
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// View is a dashboard with its headline totals formatted for display.
type View struct {
	aggregate.Dashboard
	Display Display `json:"display"`
}

// Display holds formatted headline totals.
type Display struct {
	TotalIncome       string `json:"total_income"`
	TotalExpense      string `json:"total_expense"`
	TotalBalance      string `json:"total_balance"`
	TotalAssets       string `json:"total_assets"`
	TotalIncomeShort  string `json:"total_income_short"`
	TotalExpenseShort string `json:"total_expense_short"`
}

func (s *Service) now() time.Time {
	return s.clock().In(s.loc)
}

// Dashboard returns the dashboard for a period token, from cache when possible.
func (s *Service) Dashboard(ctx context.Context, userID, token string) (*View, error) {
	now := s.now()
	rng := period.Resolve(token, now)
	key := cache.Key(userID, "dashboard", period.DateKey(rng.Start), period.DateKey(rng.End))

	var cached View
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}
	return s.computeDashboard(ctx, userID, now, rng, key)
}

// Recompute rebuilds the dashboard for a period token, ignoring the cache.
func (s *Service) Recompute(ctx context.Context, userID, token string) (*View, error) {
	now := s.now()
	rng := period.Resolve(token, now)
	key := cache.Key(userID, "dashboard", period.DateKey(rng.Start), period.DateKey(rng.End))
	return s.computeDashboard(ctx, userID, now, rng, key)
}

func (s *Service) computeDashboard(ctx context.Context, userID string, now time.Time, rng period.Range, key string) (*View, error) {
	// The comparison chart needs the previous and the whole current month,
	// the trend the last 30 days.
	from, to := rng.Start, rng.End
	for _, start := range []time.Time{period.MonthRange(now, -1).Start, period.LastDays(now, 30).Start} {
		if start.Before(from) {
			from = start
		}
	}
	if end := period.MonthRange(now, 0).End; end.After(to) {
		to = end
	}

	gen := s.gens.current(userID)
	in, err := s.load(ctx, userID, services.TransactionFilter{FromDate: &from, ToDate: &to}, true)
	if err != nil {
		return nil, err
	}

	d := aggregate.Build(in, now, rng)
	view := &View{
		Dashboard: d,
		Display: Display{
			TotalIncome:       money.Format(d.Summary.TotalIncome),
			TotalExpense:      money.Format(d.Summary.TotalExpense),
			TotalBalance:      money.Format(d.Summary.TotalBalance),
			TotalAssets:       money.Format(d.Summary.TotalAssets),
			TotalIncomeShort:  money.FormatShort(d.Summary.TotalIncome),
			TotalExpenseShort: money.FormatShort(d.Summary.TotalExpense),
		},
	}

	s.setCached(ctx, userID, gen, key, view)
	return view, nil
}

// load fetches everything a computation needs concurrently. If any fetch
// fails nothing is returned, so callers never aggregate partial joins.
func (s *Service) load(ctx context.Context, userID string, filter services.TransactionFilter, withHoldings bool) (aggregate.Input, error) {
	var in aggregate.Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.transactions.ListTransactions(gctx, userID, filter)
		in.Transactions = txs
		return err
	})
	g.Go(func() error {
		cats, err := s.categories.ListCategories(gctx, userID, nil)
		in.Categories = cats
		return err
	})
	g.Go(func() error {
		accounts, err := s.bankAccounts.ListBankAccounts(gctx, userID)
		in.BankAccounts = accounts
		return err
	})
	if withHoldings {
		g.Go(func() error {
			assets, err := s.assets.ListAssets(gctx, userID)
			in.Assets = assets
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard data unavailable", zap.String("user_id", userID), zap.Error(err))
		return aggregate.Input{}, err
	}
	return in, nil
}

// Invalidate drops every cached view of a user. Cache failures are logged.
// Computations still in flight will not cache their result.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.gens.bump(userID, func() {
		if err := s.cache.DeletePrefix(ctx, cache.UserPrefix(userID)); err != nil {
			s.logger.Warn("failed to invalidate view cache", zap.String("user_id", userID), zap.Error(err))
		}
	})
}

func (s *Service) getCached(ctx context.Context, key string, dst interface{}) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// setCached stores value unless the user was invalidated after generation
// gen was read.
func (s *Service) setCached(ctx context.Context, userID string, gen uint64, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode view for cache", zap.String("key", key), zap.Error(err))
		return
	}
	stored := s.gens.ifCurrent(userID, gen, func() {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("view cache write failed", zap.String("key", key), zap.Error(err))
		}
	})
	if !stored {
		s.logger.Debug("discarding view computed before invalidation", zap.String("user_id", userID))
	}
}
