package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/listquery"
	"github.com/storelane/storelane/internal/platform/httpx"
)

type fakeRepo struct {
	createdReturn SalesReturn
	transfer      StockTransfer
}

func (f *fakeRepo) ListAdjustments(context.Context, listquery.State, int64) ([]StockAdjustment, int, error) {
	return nil, 0, nil
}
func (f *fakeRepo) CreateAdjustment(_ context.Context, a StockAdjustment) (StockAdjustment, error) {
	a.ID = 1
	return a, nil
}
func (f *fakeRepo) ListTransfers(context.Context, listquery.State, int64) ([]StockTransfer, int, error) {
	return nil, 0, nil
}
func (f *fakeRepo) CreateTransfer(_ context.Context, t StockTransfer) (StockTransfer, error) {
	t.ID = 1
	f.transfer = t
	return t, nil
}
func (f *fakeRepo) ListReturns(context.Context, listquery.State, int64) ([]SalesReturn, int, error) {
	return nil, 0, nil
}
func (f *fakeRepo) CreateReturn(_ context.Context, sr SalesReturn) (SalesReturn, error) {
	sr.ID = 1
	f.createdReturn = sr
	return sr, nil
}

var testDate = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

func TestCreateTransferRejectsSameBranch(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.CreateTransfer(context.Background(), TransferInput{
		Date: testDate, FromBranchID: 3, ToBranchID: 3, ProductID: 1, Quantity: 5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateTransferPassesThrough(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	created, err := svc.CreateTransfer(context.Background(), TransferInput{
		Date: testDate, FromBranchID: 3, ToBranchID: 4, ProductID: 1, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.FromBranchID)
	assert.Equal(t, int64(4), repo.transfer.ToBranchID)
}

func TestCreateReturnPassesThrough(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	created, err := svc.CreateReturn(context.Background(), ReturnInput{
		Date: testDate, InvoiceID: 5, ProductID: 2, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.InvoiceID)
	assert.Equal(t, float64(3), repo.createdReturn.Quantity)
	assert.Zero(t, repo.createdReturn.BranchID, "the branch is resolved from the invoice inside the transaction")
}

func TestCreateReturnRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.CreateReturn(context.Background(), ReturnInput{
		Date: testDate, InvoiceID: 5, ProductID: 2, Quantity: 0,
	})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}
