package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane/internal/reports"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup precomputes the report summary caches.
	TaskReportWarmup = "reports:warmup"
	// TaskLowStockScan flags products at or below their alert quantity.
	TaskLowStockScan = "stock:lowstock"
)

// LowStockScanPayload narrows the scan to one branch; zero means all.
type LowStockScanPayload struct {
	BranchID int64 `json:"branchId"`
}

// NewReportWarmupTask constructs the report warmup task.
func NewReportWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReportWarmup, nil)
}

// NewLowStockScanTask constructs a low stock scan task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// Handlers bundles the dependencies the task handlers need.
type Handlers struct {
	Reports *reports.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
}

// HandleReportWarmup refreshes the cached report summaries.
func (h *Handlers) HandleReportWarmup(ctx context.Context, _ *asynq.Task) error {
	if err := h.Reports.Warm(ctx); err != nil {
		h.Logger.Error("report warmup", slog.Any("error", err))
		return err
	}
	h.Logger.Info("report summaries warmed")
	return nil
}

// HandleLowStockScan logs every branch stock line at or below its alert
// quantity so operators can reorder.
func (h *Handlers) HandleLowStockScan(ctx context.Context, t *asynq.Task) error {
	var payload LowStockScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	query := `SELECT p.name, b.name, bs.quantity, p.alert_qty
		FROM branch_stocks bs
		JOIN products p ON p.id = bs.product_id
		JOIN branches b ON b.id = bs.branch_id
		WHERE bs.quantity <= p.alert_qty`
	args := []any{}
	if payload.BranchID > 0 {
		query += ` AND bs.branch_id = $1`
		args = append(args, payload.BranchID)
	}

	rows, err := h.Pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var product, branch string
		var qty, alert float64
		if err := rows.Scan(&product, &branch, &qty, &alert); err != nil {
			return err
		}
		count++
		h.Logger.Warn("low stock",
			slog.String("product", product),
			slog.String("branch", branch),
			slog.Float64("quantity", qty),
			slog.Float64("alertQty", alert))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	h.Logger.Info("low stock scan complete", slog.Int("flagged", count))
	return nil
}
