package invoices

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
	created Invoice
	stored  map[int64]Invoice
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[int64]Invoice{}}
}

func (f *fakeRepo) List(context.Context, listquery.State, ListFilters) ([]Invoice, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Invoice, error) {
	inv, ok := f.stored[id]
	if !ok {
		return Invoice{}, httpx.ErrNotFound
	}
	return inv, nil
}

func (f *fakeRepo) Create(_ context.Context, inv Invoice) (int64, error) {
	f.nextID++
	inv.ID = f.nextID
	f.created = inv
	f.stored[inv.ID] = inv
	return inv.ID, nil
}

func (f *fakeRepo) Update(_ context.Context, inv Invoice) error {
	if _, ok := f.stored[inv.ID]; !ok {
		return httpx.ErrNotFound
	}
	f.stored[inv.ID] = inv
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.stored, id)
	return nil
}

func (f *fakeRepo) RecordPayment(_ context.Context, id int64, amount float64) (Invoice, error) {
	inv, ok := f.stored[id]
	if !ok {
		return Invoice{}, httpx.ErrNotFound
	}
	inv.PaidAmount += amount
	inv.Status = DeriveStatus(inv.GrandTotal, inv.PaidAmount)
	f.stored[id] = inv
	return inv, nil
}

func (f *fakeRepo) NextReference(context.Context) (string, error) {
	return "INV-000001", nil
}

func validInput() InvoiceInput {
	return InvoiceInput{
		Date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CustomerID: 4,
		BranchID:   2,
		Lines: []LineInput{
			{ProductID: 7, Quantity: 2, UnitPrice: 100},
		},
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusDue, DeriveStatus(200, 0))
	assert.Equal(t, StatusPartial, DeriveStatus(200, 50))
	assert.Equal(t, StatusPaid, DeriveStatus(200, 200))
	assert.Equal(t, StatusDue, DeriveStatus(0, 0))
}

func TestCreatePricesLinesAndDerivesStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	input := validInput()
	input.PaidAmount = 80

	created, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", created.Reference)
	assert.Equal(t, 200.0, created.GrandTotal)
	assert.Equal(t, StatusPartial, created.Status)
	require.Len(t, repo.created.Lines, 1)
	assert.Equal(t, 200.0, repo.created.Lines[0].Total)
}

func TestCreateRejectsOverpayment(t *testing.T) {
	svc := NewService(newFakeRepo())

	input := validInput()
	input.PaidAmount = 500

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRejectsEmptyLines(t *testing.T) {
	svc := NewService(newFakeRepo())

	input := validInput()
	input.Lines = nil

	_, err := svc.Create(context.Background(), input)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestRecordPaymentFlipsStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDue, created.Status)

	updated, err := svc.RecordPayment(context.Background(), created.ID, PaymentInput{Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.RecordPayment(context.Background(), 1, PaymentInput{Amount: 0})
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}
