package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// amountPrinter renders money columns with thousands separators.
var amountPrinter = message.NewPrinter(language.English)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func writeSalesCSV(w io.Writer, rows []SalesRow, summary SalesSummary, f Filters) error {
	streamer := newCSVStreamer(w)
	if err := writeMetadata(streamer, "Sales Report", f); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Reference", "Date", "Customer", "Branch", "Status", "Total", "Paid", "Due"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := streamer.writeRow([]string{
			row.Reference,
			row.Date.Format("2006-01-02"),
			row.Customer,
			row.Branch,
			row.Status,
			formatAmount(row.GrandTotal),
			formatAmount(row.PaidAmount),
			formatAmount(row.DueAmount),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", "", "", "", "", ""}); err != nil {
		return err
	}
	totals := [][]string{
		{"Totals", "", "Invoices", "", "", fmt.Sprintf("%d", summary.InvoiceCount), "", ""},
		{"Totals", "", "Total Sales", "", "", formatAmount(summary.TotalSales), "", ""},
		{"Totals", "", "Total Paid", "", "", formatAmount(summary.TotalPaid), "", ""},
		{"Totals", "", "Total Due", "", "", formatAmount(summary.TotalDue), "", ""},
	}
	for _, row := range totals {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Flush()
}

func writePurchasesCSV(w io.Writer, rows []PurchaseRow, summary PurchaseSummary, f Filters) error {
	streamer := newCSVStreamer(w)
	if err := writeMetadata(streamer, "Purchases Report", f); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Reference", "Date", "Supplier", "Branch", "Status", "Total"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := streamer.writeRow([]string{
			row.Reference,
			row.Date.Format("2006-01-02"),
			row.Supplier,
			row.Branch,
			row.Status,
			formatAmount(row.GrandTotal),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", "", "", ""}); err != nil {
		return err
	}
	totals := [][]string{
		{"Totals", "", "Purchases", "", "", fmt.Sprintf("%d", summary.PurchaseCount)},
		{"Totals", "", "Received", "", "", fmt.Sprintf("%d", summary.ReceivedCount)},
		{"Totals", "", "Total Amount", "", "", formatAmount(summary.TotalPurchases)},
	}
	for _, row := range totals {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Flush()
}

func writeStockCSV(w io.Writer, rows []StockRow, summary StockSummary, f Filters) error {
	streamer := newCSVStreamer(w)
	if err := writeMetadata(streamer, "Stock Report", f); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Product", "Category", "Branch", "Quantity", "Alert Qty", "Low Stock"}); err != nil {
		return err
	}
	for _, row := range rows {
		low := ""
		if row.LowStock {
			low = "LOW"
		}
		if err := streamer.writeRow([]string{
			row.ProductName,
			row.Category,
			row.Branch,
			formatAmount(row.Quantity),
			formatAmount(row.AlertQty),
			low,
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", "", "", ""}); err != nil {
		return err
	}
	totals := [][]string{
		{"Totals", "", "Products", fmt.Sprintf("%d", summary.ProductCount), "", ""},
		{"Totals", "", "Total Quantity", formatAmount(summary.TotalQuantity), "", ""},
		{"Totals", "", "Low Stock Lines", fmt.Sprintf("%d", summary.LowStockCount), "", ""},
	}
	for _, row := range totals {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Flush()
}

func writeMetadata(streamer *csvStreamer, reportName string, f Filters) error {
	if err := streamer.writeComment(fmt.Sprintf("# Report: %s", reportName)); err != nil {
		return err
	}
	branch := "All"
	if f.BranchID > 0 {
		branch = fmt.Sprintf("%d", f.BranchID)
	}
	from, to := "-", "-"
	if !f.DateFrom.IsZero() {
		from = f.DateFrom.Format("2006-01-02")
	}
	if !f.DateTo.IsZero() {
		to = f.DateTo.Format("2006-01-02")
	}
	return streamer.writeComment(fmt.Sprintf("# Branch: %s | From: %s | To: %s", branch, from, to))
}

func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}
