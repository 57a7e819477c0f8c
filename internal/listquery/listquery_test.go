package listquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Columns: []Column{
			{Label: "Name", Field: "name"},
			{Label: "Email", Field: "email"},
			{Label: "Phone", Field: "phone"},
			{Label: "Actions"},
		},
		DefaultSort: "name",
	}
}

func TestDecodeDefaults(t *testing.T) {
	cfg := testConfig()
	state := cfg.Decode(url.Values{})

	assert.Equal(t, "", state.Search)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, DefaultPageSize, state.PageSize)
	assert.Equal(t, "name", state.SortField)
	assert.Equal(t, OrderAsc, state.SortOrder)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Actions"}, state.Columns)
}

func TestDecodeMalformedValues(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name string
		vals url.Values
		want State
	}{
		{
			name: "non numeric page",
			vals: url.Values{ParamPage: {"abc"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderAsc},
		},
		{
			name: "negative page",
			vals: url.Values{ParamPage: {"-4"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderAsc},
		},
		{
			name: "page size outside allowed set",
			vals: url.Values{ParamPageSize: {"37"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderAsc},
		},
		{
			name: "unknown sort field",
			vals: url.Values{ParamSortField: {"password"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderAsc},
		},
		{
			name: "sort order anything but desc is asc",
			vals: url.Values{ParamSortOrder: {"DESC"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderAsc},
		},
		{
			name: "literal desc",
			vals: url.Values{ParamSortOrder: {"desc"}},
			want: State{Page: 1, PageSize: 10, SortField: "name", SortOrder: OrderDesc},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cfg.Decode(tc.vals)
			got.Columns = nil
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	cfg := testConfig()
	state := cfg.Decode(url.Values{})
	assert.Empty(t, cfg.Encode(state))
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cfg := testConfig()
	vals := url.Values{}
	vals.Set(ParamSearch, "acme")
	vals.Set(ParamPage, "3")
	vals.Set(ParamPageSize, "50")
	vals.Set(ParamSortField, "email")
	vals.Set(ParamSortOrder, "desc")

	state := cfg.Decode(vals)
	again := cfg.Decode(cfg.Encode(state))
	assert.Equal(t, state, again)
}

func TestMerge(t *testing.T) {
	vals := url.Values{}
	vals.Set(ParamSearch, "acme")
	vals.Set(ParamPage, "3")

	t.Run("empty partial is identity", func(t *testing.T) {
		merged := Merge(vals, nil)
		assert.Equal(t, vals, merged)
	})

	t.Run("mentioned keys overwrite, others survive", func(t *testing.T) {
		merged := Merge(vals, map[string]string{ParamPage: "1"})
		assert.Equal(t, "1", merged.Get(ParamPage))
		assert.Equal(t, "acme", merged.Get(ParamSearch))
	})

	t.Run("empty value deletes the key", func(t *testing.T) {
		merged := Merge(vals, map[string]string{ParamSearch: ""})
		assert.False(t, merged.Has(ParamSearch))
		assert.Equal(t, "3", merged.Get(ParamPage))
	})

	t.Run("input values untouched", func(t *testing.T) {
		_ = Merge(vals, map[string]string{ParamSearch: "", ParamPage: "9"})
		assert.Equal(t, "acme", vals.Get(ParamSearch))
		assert.Equal(t, "3", vals.Get(ParamPage))
	})
}

func TestSort(t *testing.T) {
	cfg := testConfig()
	state := State{SortField: "name", SortOrder: OrderAsc}

	t.Run("same column flips direction", func(t *testing.T) {
		got := cfg.Sort(state, "Name")
		assert.Equal(t, "name", got.SortField)
		assert.Equal(t, OrderDesc, got.SortOrder)

		got = cfg.Sort(got, "Name")
		assert.Equal(t, OrderAsc, got.SortOrder)
	})

	t.Run("new column restarts ascending", func(t *testing.T) {
		desc := State{SortField: "name", SortOrder: OrderDesc}
		got := cfg.Sort(desc, "Email")
		assert.Equal(t, "email", got.SortField)
		assert.Equal(t, OrderAsc, got.SortOrder)
	})

	t.Run("unmapped label is a no-op", func(t *testing.T) {
		got := cfg.Sort(state, "Actions")
		assert.Equal(t, state, got)
		got = cfg.Sort(state, "Nope")
		assert.Equal(t, state, got)
	})
}

func TestToggleColumn(t *testing.T) {
	state := State{Columns: []string{"Name", "Email", "Phone"}}

	removed := state.ToggleColumn("Email")
	assert.Equal(t, []string{"Name", "Phone"}, removed.Columns)

	readded := removed.ToggleColumn("Email")
	assert.Equal(t, []string{"Name", "Phone", "Email"}, readded.Columns,
		"re-added columns append at the end, not their original position")

	// The original state is unchanged.
	assert.Equal(t, []string{"Name", "Email", "Phone"}, state.Columns)
}

func TestTotalPagesAndClamp(t *testing.T) {
	cases := []struct {
		total, pageSize, page int
		wantPages, wantPage   int
	}{
		{total: 0, pageSize: 10, page: 1, wantPages: 1, wantPage: 1},
		{total: 5, pageSize: 10, page: 3, wantPages: 1, wantPage: 1},
		{total: 100, pageSize: 10, page: 10, wantPages: 10, wantPage: 10},
		{total: 101, pageSize: 10, page: 11, wantPages: 11, wantPage: 11},
		{total: 101, pageSize: 10, page: 99, wantPages: 11, wantPage: 11},
		{total: 45, pageSize: 20, page: 0, wantPages: 3, wantPage: 1},
	}

	for _, tc := range cases {
		state := State{Page: tc.page, PageSize: tc.pageSize, Total: tc.total}
		require.Equal(t, tc.wantPages, state.TotalPages(), "total=%d size=%d", tc.total, tc.pageSize)
		assert.Equal(t, tc.wantPage, state.Clamped().Page, "total=%d size=%d page=%d", tc.total, tc.pageSize, tc.page)
	}
}

func TestOffsetLimit(t *testing.T) {
	state := State{Page: 3, PageSize: 20}
	assert.Equal(t, 40, state.Offset())
	assert.Equal(t, 20, state.Limit())

	assert.Equal(t, 0, State{}.Offset())
	assert.Equal(t, DefaultPageSize, State{}.Limit())
}

func TestOrderBy(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, "email DESC", cfg.OrderBy(State{SortField: "email", SortOrder: OrderDesc}))
	assert.Equal(t, "name ASC", cfg.OrderBy(State{SortField: "name"}))
	// Unknown fields never reach the SQL text.
	assert.Equal(t, "name ASC", cfg.OrderBy(State{SortField: "drop table"}))
}

func TestOrderByUsesColumnExpr(t *testing.T) {
	cfg := Config{
		Columns: []Column{
			{Label: "Customer", Field: "customer", Expr: "cu.name"},
			{Label: "Date", Field: "date"},
		},
		DefaultSort: "date",
	}

	assert.Equal(t, "cu.name ASC", cfg.OrderBy(State{SortField: "customer"}))
	assert.Equal(t, "date DESC", cfg.OrderBy(State{SortField: "date", SortOrder: OrderDesc}))
}
