package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/storelane/storelane/internal/listquery"
)

// Service serves report rows and their aggregate summaries. Summaries are
// the expensive part, so they are cached in Redis and deduplicated with
// singleflight while rows are always read fresh.
type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
	ttl    time.Duration
	group  singleflight.Group
}

// NewService constructs a Service.
func NewService(repo Repository, cache *redis.Client, logger *slog.Logger, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// Sales returns the sales report page with its summary.
func (s *Service) Sales(ctx context.Context, q listquery.State, f Filters) ([]SalesRow, int, SalesSummary, error) {
	rows, total, err := s.repo.SalesRows(ctx, q, f)
	if err != nil {
		return nil, 0, SalesSummary{}, err
	}
	summary, err := s.SalesSummaryOnly(ctx, f)
	return rows, total, summary, err
}

// Purchases returns the purchases report page with its summary.
func (s *Service) Purchases(ctx context.Context, q listquery.State, f Filters) ([]PurchaseRow, int, PurchaseSummary, error) {
	rows, total, err := s.repo.PurchaseRows(ctx, q, f)
	if err != nil {
		return nil, 0, PurchaseSummary{}, err
	}
	summary, err := s.PurchaseSummaryOnly(ctx, f)
	return rows, total, summary, err
}

// Stock returns the stock report page with its summary.
func (s *Service) Stock(ctx context.Context, q listquery.State, f Filters) ([]StockRow, int, StockSummary, error) {
	rows, total, err := s.repo.StockRows(ctx, q, f)
	if err != nil {
		return nil, 0, StockSummary{}, err
	}
	summary, err := s.StockSummaryOnly(ctx, f)
	return rows, total, summary, err
}

// SalesRows streams every matching row for export, without paging.
func (s *Service) SalesRows(ctx context.Context, q listquery.State, f Filters) ([]SalesRow, error) {
	q.PageSize = exportPageSize
	q.Page = 1
	rows, _, err := s.repo.SalesRows(ctx, q, f)
	return rows, err
}

// PurchaseRows streams every matching row for export, without paging.
func (s *Service) PurchaseRows(ctx context.Context, q listquery.State, f Filters) ([]PurchaseRow, error) {
	q.PageSize = exportPageSize
	q.Page = 1
	rows, _, err := s.repo.PurchaseRows(ctx, q, f)
	return rows, err
}

// StockRows streams every matching row for export, without paging.
func (s *Service) StockRows(ctx context.Context, q listquery.State, f Filters) ([]StockRow, error) {
	q.PageSize = exportPageSize
	q.Page = 1
	rows, _, err := s.repo.StockRows(ctx, q, f)
	return rows, err
}

// exportPageSize caps CSV exports.
const exportPageSize = 100000

// SalesSummaryOnly resolves the sales summary block without fetching rows.
func (s *Service) SalesSummaryOnly(ctx context.Context, f Filters) (SalesSummary, error) {
	var summary SalesSummary
	err := s.summary(ctx, "sales", f, &summary, func(ctx context.Context) (any, error) {
		return s.repo.SalesSummary(ctx, f)
	})
	return summary, err
}

// PurchaseSummaryOnly resolves the purchases summary block without fetching
// rows.
func (s *Service) PurchaseSummaryOnly(ctx context.Context, f Filters) (PurchaseSummary, error) {
	var summary PurchaseSummary
	err := s.summary(ctx, "purchases", f, &summary, func(ctx context.Context) (any, error) {
		return s.repo.PurchaseSummary(ctx, f)
	})
	return summary, err
}

// StockSummaryOnly resolves the stock summary block without fetching rows.
func (s *Service) StockSummaryOnly(ctx context.Context, f Filters) (StockSummary, error) {
	var summary StockSummary
	err := s.summary(ctx, "stock", f, &summary, func(ctx context.Context) (any, error) {
		return s.repo.StockSummary(ctx, f)
	})
	return summary, err
}

// Warm precomputes the unfiltered summaries so the first dashboard hit of
// the day is served from cache. Called from the background worker.
func (s *Service) Warm(ctx context.Context) error {
	if _, err := s.SalesSummaryOnly(ctx, Filters{}); err != nil {
		return err
	}
	if _, err := s.PurchaseSummaryOnly(ctx, Filters{}); err != nil {
		return err
	}
	_, err := s.StockSummaryOnly(ctx, Filters{})
	return err
}

// summary resolves one summary block through the cache, collapsing
// concurrent misses for the same key into a single query.
func (s *Service) summary(ctx context.Context, name string, f Filters, out any, build func(context.Context) (any, error)) error {
	key := cacheKey(name, f)

	if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		if json.Unmarshal(raw, out) == nil {
			return nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		v, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("cache report summary", slog.String("key", key), slog.Any("error", err))
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		raw, err := json.Marshal(res.Val)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, out)
	}
}

func cacheKey(name string, f Filters) string {
	from, to := "", ""
	if !f.DateFrom.IsZero() {
		from = f.DateFrom.Format("2006-01-02")
	}
	if !f.DateTo.IsZero() {
		to = f.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("report:%s:%d:%s:%s", name, f.BranchID, from, to)
}
