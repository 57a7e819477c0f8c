// Package listview drives a paged, sorted, searchable table view against
// the console's list endpoints. A Controller owns one view's query state
// and keeps it consistent under concurrent refreshes: only the most
// recently issued fetch may update the table, stale responses are dropped.
package listview

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/storelane/storelane/internal/listquery"
)

// Page is one fetched page of rows.
type Page[T any] struct {
	Data    []T
	Total   int
	Summary json.RawMessage
}

// Fetcher loads pages for a resource.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, state listquery.State) (Page[T], error)
}

// Notifier receives user-facing outcome messages. Implementations render
// them as toasts or log lines.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Confirmer asks the user to approve a destructive action. Implementations
// render a confirmation dialog and report the user's choice.
type Confirmer interface {
	Confirm(msg string) bool
}

// AutoConfirm approves every prompt, for non-interactive callers.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) bool { return true }

// Controller synchronizes one list view's query state with its backend.
// All methods are safe for concurrent use.
type Controller[T any] struct {
	cfg       listquery.Config
	fetcher   Fetcher[T]
	notifier  Notifier
	confirmer Confirmer

	mu      sync.Mutex
	state   listquery.State
	rows    []T
	summary json.RawMessage
	loading bool
	seq     uint64
}

// NewController constructs a Controller with the config's default state.
func NewController[T any](cfg listquery.Config, fetcher Fetcher[T], notifier Notifier, confirmer Confirmer) *Controller[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if confirmer == nil {
		confirmer = AutoConfirm{}
	}
	return &Controller[T]{
		cfg:       cfg,
		fetcher:   fetcher,
		notifier:  notifier,
		confirmer: confirmer,
		state:     cfg.Decode(nil),
	}
}

// State returns a copy of the current query state.
func (c *Controller[T]) State() listquery.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rows returns the last successfully fetched rows. After a failed fetch
// the previous rows remain visible.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Summary returns the raw summary block of the last successful fetch, if
// the endpoint provided one.
func (c *Controller[T]) Summary() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Loading reports whether a fetch is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Refresh fetches the current page. If the server reports a total that
// leaves the requested page out of range, the page is clamped and fetched
// again. A response that was overtaken by a newer call is discarded.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	state := c.state
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if seq == c.seq {
			c.loading = false
		}
		c.mu.Unlock()
	}()

	page, err := c.fetcher.Fetch(ctx, state)
	if err != nil {
		c.mu.Lock()
		stale := seq != c.seq
		c.mu.Unlock()
		if !stale {
			c.notifier.Error(err.Error())
		}
		return err
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return nil
	}
	c.state.Total = page.Total
	clamped := c.state.Clamped()
	refetch := clamped.Page != c.state.Page
	c.state = clamped
	if !refetch {
		c.rows = page.Data
		c.summary = page.Summary
	}
	c.mu.Unlock()

	if refetch {
		return c.Refresh(ctx)
	}
	return nil
}

// SetSearch replaces the search term and resets to the first page.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) error {
	c.mu.Lock()
	c.state.Search = term
	c.state.Page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPage jumps to the given page.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	c.state.Page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPageSize changes the page size and resets to the first page. Sizes
// outside the configured set fall back to the default.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	c.mu.Lock()
	c.state.PageSize = c.cfg.NormalizePageSize(size)
	c.state.Page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// HandleSort cycles the sort for the given column label. Sorting by a new
// column starts ascending; sorting the active column again flips the
// direction. Labels without a sortable field are ignored without a fetch.
func (c *Controller[T]) HandleSort(ctx context.Context, label string) error {
	c.mu.Lock()
	next := c.cfg.Sort(c.state, label)
	changed := next.SortField != c.state.SortField ||
		next.SortOrder != c.state.SortOrder ||
		next.Page != c.state.Page
	c.state = next
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.Refresh(ctx)
}

// ToggleColumn shows or hides the given column. Visibility is local view
// state, so no fetch is issued.
func (c *Controller[T]) ToggleColumn(label string) {
	c.mu.Lock()
	c.state = c.state.ToggleColumn(label)
	c.mu.Unlock()
}

// Deleter removes a row by ID.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// Delete asks for confirmation, removes the row and refetches the current
// page so the table and total reflect the deletion. A declined prompt sends
// no request. The page clamps down when the last row of the final page was
// removed.
func (c *Controller[T]) Delete(ctx context.Context, d Deleter, id int64, confirmMsg, successMsg string) error {
	if !c.confirmer.Confirm(confirmMsg) {
		return nil
	}
	if err := d.Delete(ctx, id); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	if successMsg != "" {
		c.notifier.Success(successMsg)
	}
	return c.Refresh(ctx)
}
