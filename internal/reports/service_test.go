package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/listquery"
)

type countingRepo struct {
	rowCalls     int
	summaryCalls int
}

func (r *countingRepo) SalesRows(context.Context, listquery.State, Filters) ([]SalesRow, int, error) {
	r.rowCalls++
	return []SalesRow{{Reference: "INV-1", GrandTotal: 100}}, 1, nil
}

func (r *countingRepo) SalesSummary(context.Context, Filters) (SalesSummary, error) {
	r.summaryCalls++
	return SalesSummary{InvoiceCount: 1, TotalSales: 100}, nil
}

func (r *countingRepo) PurchaseRows(context.Context, listquery.State, Filters) ([]PurchaseRow, int, error) {
	r.rowCalls++
	return nil, 0, nil
}

func (r *countingRepo) PurchaseSummary(context.Context, Filters) (PurchaseSummary, error) {
	r.summaryCalls++
	return PurchaseSummary{}, nil
}

func (r *countingRepo) StockRows(context.Context, listquery.State, Filters) ([]StockRow, int, error) {
	r.rowCalls++
	return nil, 0, nil
}

func (r *countingRepo) StockSummary(context.Context, Filters) (StockSummary, error) {
	r.summaryCalls++
	return StockSummary{}, nil
}

func newReportService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })
	repo := &countingRepo{}
	return NewService(repo, cache, slog.New(slog.DiscardHandler), time.Minute), repo
}

func TestSummaryOnlySkipsRows(t *testing.T) {
	svc, repo := newReportService(t)

	summary, err := svc.SalesSummaryOnly(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.InvoiceCount)
	assert.Zero(t, repo.rowCalls, "a summary lookup must not fetch report rows")
	assert.Equal(t, 1, repo.summaryCalls)
}

func TestSummaryIsCachedPerFilter(t *testing.T) {
	svc, repo := newReportService(t)
	ctx := context.Background()

	_, err := svc.SalesSummaryOnly(ctx, Filters{BranchID: 2})
	require.NoError(t, err)
	_, err = svc.SalesSummaryOnly(ctx, Filters{BranchID: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryCalls, "the second lookup must be served from cache")

	_, err = svc.SalesSummaryOnly(ctx, Filters{BranchID: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryCalls, "a different filter is a different cache key")
}

func TestWarmFillsAllSummaries(t *testing.T) {
	svc, repo := newReportService(t)
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, 3, repo.summaryCalls)

	_, _, _, err := svc.Sales(ctx, listquery.State{Page: 1, PageSize: 10}, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.summaryCalls, "the warmed summary must be served from cache")
	assert.Equal(t, 1, repo.rowCalls)
}