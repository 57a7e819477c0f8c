package listview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/internal/listquery"
)

type row struct {
	ID   int64
	Name string
}

var testConfig = listquery.Config{
	Columns: []listquery.Column{
		{Label: "Name", Field: "name"},
		{Label: "Code", Field: "code"},
		{Label: "Actions"},
	},
	DefaultSort: "name",
}

type scriptedFetcher struct {
	mu      sync.Mutex
	pages   []func(listquery.State) (Page[row], error)
	calls   []listquery.State
	deleted []int64
}

func (f *scriptedFetcher) Fetch(_ context.Context, state listquery.State) (Page[row], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, state)
	if len(f.pages) == 0 {
		return Page[row]{}, errors.New("no scripted page")
	}
	next := f.pages[0]
	f.pages = f.pages[1:]
	return next(state)
}

func (f *scriptedFetcher) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func page(rows []row, total int) func(listquery.State) (Page[row], error) {
	return func(listquery.State) (Page[row], error) {
		return Page[row]{Data: rows, Total: total}, nil
	}
}

func fail(msg string) func(listquery.State) (Page[row], error) {
	return func(listquery.State) (Page[row], error) {
		return Page[row]{}, errors.New(msg)
	}
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func TestRefreshLoadsRowsAndTotal(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page([]row{{1, "Alpha"}, {2, "Beta"}}, 2),
	}}
	c := NewController[row](testConfig, fetcher, nil, nil)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, c.Rows(), 2)
	assert.Equal(t, 2, c.State().Total)
	assert.False(t, c.Loading())
}

func TestFailedFetchKeepsRowsAndReportsExactMessage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page([]row{{1, "Alpha"}}, 1),
		fail("Error fetching category"),
	}}
	notifier := &recordingNotifier{}
	c := NewController[row](testConfig, fetcher, notifier, nil)

	require.NoError(t, c.Refresh(context.Background()))
	require.Error(t, c.Refresh(context.Background()))

	assert.Len(t, c.Rows(), 1, "previous rows stay visible after a failure")
	assert.Equal(t, []string{"Error fetching category"}, notifier.errors)
	assert.False(t, c.Loading(), "loading must release on the error path")
}

func TestOutOfRangePageClampsAndRefetches(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		// The view asks for page 3 but the server only has 5 rows.
		page(nil, 5),
		page([]row{{1, "Alpha"}}, 5),
	}}
	c := NewController[row](testConfig, fetcher, nil, nil)

	require.NoError(t, c.SetPage(context.Background(), 3))

	assert.Equal(t, 1, c.State().Page)
	assert.Len(t, c.Rows(), 1)
	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, 3, fetcher.calls[0].Page)
	assert.Equal(t, 1, fetcher.calls[1].Page)
}

func TestSearchResetsPage(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page(nil, 100),
		page(nil, 1),
	}}
	c := NewController[row](testConfig, fetcher, nil, nil)

	require.NoError(t, c.SetPage(context.Background(), 5))
	require.NoError(t, c.SetSearch(context.Background(), "alpha"))

	last := fetcher.calls[len(fetcher.calls)-1]
	assert.Equal(t, "alpha", last.Search)
	assert.Equal(t, 1, last.Page)
}

func TestHandleSortFlipsAndIgnoresUnmapped(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page(nil, 0), page(nil, 0),
	}}
	c := NewController[row](testConfig, fetcher, nil, nil)

	require.NoError(t, c.HandleSort(context.Background(), "Name"))
	assert.Equal(t, listquery.OrderDesc, c.State().SortOrder)

	require.NoError(t, c.HandleSort(context.Background(), "Code"))
	assert.Equal(t, "code", c.State().SortField)
	assert.Equal(t, listquery.OrderAsc, c.State().SortOrder)

	calls := len(fetcher.calls)
	require.NoError(t, c.HandleSort(context.Background(), "Actions"))
	assert.Len(t, fetcher.calls, calls, "unsortable column must not trigger a fetch")
}

func TestToggleColumnIsLocal(t *testing.T) {
	fetcher := &scriptedFetcher{}
	c := NewController[row](testConfig, fetcher, nil, nil)

	c.ToggleColumn("Code")
	assert.Equal(t, []string{"Name", "Actions"}, c.State().Columns)
	assert.Empty(t, fetcher.calls)

	c.ToggleColumn("Code")
	assert.Equal(t, []string{"Name", "Actions", "Code"}, c.State().Columns)
}

func TestDeleteRefetchesCurrentState(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page([]row{{1, "Alpha"}}, 1),
		page(nil, 0),
	}}
	notifier := &recordingNotifier{}
	c := NewController[row](testConfig, fetcher, notifier, nil)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Delete(context.Background(), fetcher, 1, "Delete this category?", "Category deleted"))

	assert.Equal(t, []int64{1}, fetcher.deleted)
	assert.Equal(t, []string{"Category deleted"}, notifier.successes)
	assert.Len(t, fetcher.calls, 2)
}

type scriptedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *scriptedConfirmer) Confirm(msg string) bool {
	c.prompts = append(c.prompts, msg)
	return c.answer
}

func TestDeleteDeclinedSendsNoRequest(t *testing.T) {
	fetcher := &scriptedFetcher{}
	notifier := &recordingNotifier{}
	confirmer := &scriptedConfirmer{answer: false}
	c := NewController[row](testConfig, fetcher, notifier, confirmer)

	require.NoError(t, c.Delete(context.Background(), fetcher, 42, "Delete this category?", "Category deleted"))

	assert.Equal(t, []string{"Delete this category?"}, confirmer.prompts)
	assert.Empty(t, fetcher.deleted, "a declined prompt must not issue the request")
	assert.Empty(t, fetcher.calls, "a declined prompt must not refetch")
	assert.Empty(t, notifier.successes)
}

func TestDeleteConfirmedProceeds(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []func(listquery.State) (Page[row], error){
		page(nil, 0),
	}}
	confirmer := &scriptedConfirmer{answer: true}
	c := NewController[row](testConfig, fetcher, nil, confirmer)

	require.NoError(t, c.Delete(context.Background(), fetcher, 42, "Delete this category?", ""))

	assert.Equal(t, []string{"Delete this category?"}, confirmer.prompts)
	assert.Equal(t, []int64{42}, fetcher.deleted)
}

// blockingFetcher lets the test hold an early fetch open while later
// fetches complete, to exercise latest-issued-wins.
type blockingFetcher struct {
	mu      sync.Mutex
	block   chan struct{}
	blocked bool
	calls   int
}

func (f *blockingFetcher) Fetch(_ context.Context, state listquery.State) (Page[row], error) {
	f.mu.Lock()
	f.calls++
	first := f.calls == 1
	f.mu.Unlock()
	if first {
		<-f.block
		return Page[row]{Data: []row{{99, "Stale"}}, Total: 1}, nil
	}
	return Page[row]{Data: []row{{1, "Fresh"}}, Total: 1}, nil
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{block: make(chan struct{})}
	c := NewController[row](testConfig, fetcher, nil, nil)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	// Wait for the first fetch to be in flight, then issue a newer one.
	for {
		fetcher.mu.Lock()
		started := fetcher.calls == 1
		fetcher.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, "Fresh", c.Rows()[0].Name)

	// Release the stale fetch; its response must not overwrite the table.
	close(fetcher.block)
	require.NoError(t, <-done)
	assert.Equal(t, "Fresh", c.Rows()[0].Name)
	assert.False(t, c.Loading())
}
