package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSalesCSV(t *testing.T) {
	rows := []SalesRow{
		{
			Reference:  "INV-000001",
			Date:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			Customer:   "Acme Ltd",
			Branch:     "Main",
			Status:     "partial",
			GrandTotal: 12500.5,
			PaidAmount: 2500,
			DueAmount:  10000.5,
		},
	}
	summary := SalesSummary{InvoiceCount: 1, TotalSales: 12500.5, TotalPaid: 2500, TotalDue: 10000.5}

	var buf bytes.Buffer
	require.NoError(t, writeSalesCSV(&buf, rows, summary, Filters{BranchID: 2}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Report: Sales Report\r\n"))
	assert.Contains(t, out, "# Branch: 2 | From: - | To: -\r\n")
	assert.Contains(t, out, "Reference,Date,Customer,Branch,Status,Total,Paid,Due\r\n")
	assert.Contains(t, out, "INV-000001,2026-05-01,Acme Ltd,Main,partial,\"12,500.50\",\"2,500.00\",\"10,000.50\"\r\n")
	assert.Contains(t, out, "Totals,,Total Due,,,\"10,000.50\",,\r\n")
}

func TestWriteStockCSVFlagsLowStock(t *testing.T) {
	rows := []StockRow{
		{ProductName: "Widget", Category: "Parts", Branch: "Main", Quantity: 3, AlertQty: 5, LowStock: true},
		{ProductName: "Gadget", Category: "Parts", Branch: "Main", Quantity: 50, AlertQty: 5},
	}
	summary := StockSummary{ProductCount: 2, TotalQuantity: 53, LowStockCount: 1}

	var buf bytes.Buffer
	require.NoError(t, writeStockCSV(&buf, rows, summary, Filters{}))

	out := buf.String()
	assert.Contains(t, out, "Widget,Parts,Main,3.00,5.00,LOW\r\n")
	assert.Contains(t, out, "Gadget,Parts,Main,50.00,5.00,\r\n")
	assert.Contains(t, out, "Totals,,Low Stock Lines,1,,\r\n")
}

func TestWriteMetadataDateRange(t *testing.T) {
	var buf bytes.Buffer
	f := Filters{
		DateFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, writePurchasesCSV(&buf, nil, PurchaseSummary{}, f))
	assert.Contains(t, buf.String(), "# Branch: All | From: 2026-01-01 | To: 2026-01-31\r\n")
}
