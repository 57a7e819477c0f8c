// Package listquery formalizes the query-string contract shared by every
// list endpoint: pagination, single-column sorting, free-text search and
// column visibility, all derived from and serialized back to URL values.
package listquery

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names used by every list endpoint.
const (
	ParamSearch    = "searchTerm"
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamSortField = "sortField"
	ParamSortOrder = "sortOrder"
	ParamColumns   = "columns"
)

// DefaultPageSize applies when the query string carries no usable pageSize.
const DefaultPageSize = 10

// DefaultPageSizes is the allowed rows-per-page set.
var DefaultPageSizes = []int{10, 20, 50, 100}

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder coerces anything other than the literal "desc" to ascending.
func ParseOrder(raw string) Order {
	if raw == string(OrderDesc) {
		return OrderDesc
	}
	return OrderAsc
}

// Flip reverses the direction.
func (o Order) Flip() Order {
	if o == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// Column pairs a display label with the backend field used for ordering.
// An empty Field marks the column as unsortable. Expr, when set, is the SQL
// expression the field maps to; it defaults to the field name itself.
type Column struct {
	Label string
	Field string
	Expr  string
}

// Config describes one list view: its columns, the column→field sort map
// and the defaults applied when the URL is silent.
type Config struct {
	Columns      []Column
	DefaultSort  string
	DefaultOrder Order
	PageSizes    []int
}

// State is the current view of a paginated, sorted, filtered collection.
// It is a plain value: derive it from the URL with Config.Decode, produce
// the next URL with Encode/Merge, never mutate it in place.
type State struct {
	Search    string
	Page      int
	PageSize  int
	SortField string
	SortOrder Order
	Columns   []string
	Total     int
}

func (c Config) pageSizes() []int {
	if len(c.PageSizes) > 0 {
		return c.PageSizes
	}
	return DefaultPageSizes
}

// NormalizePageSize coerces a size into the allowed set, falling back to
// the default.
func (c Config) NormalizePageSize(size int) int {
	if containsInt(c.pageSizes(), size) {
		return size
	}
	return DefaultPageSize
}

func (c Config) defaultOrder() Order {
	if c.DefaultOrder == OrderDesc {
		return OrderDesc
	}
	return OrderAsc
}

// Labels returns the full column label set in configured order.
func (c Config) Labels() []string {
	labels := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		labels = append(labels, col.Label)
	}
	return labels
}

// Field resolves a display label to its sort field, empty if unmapped.
func (c Config) Field(label string) string {
	for _, col := range c.Columns {
		if col.Label == label {
			return col.Field
		}
	}
	return ""
}

func (c Config) knownField(field string) bool {
	if field == "" {
		return false
	}
	for _, col := range c.Columns {
		if col.Field == field {
			return true
		}
	}
	return false
}

// Decode derives a State from URL query values. It is a pure function:
// malformed numbers fall back to defaults, unknown sort fields fall back to
// the configured default, page sizes outside the allowed set reset to the
// default. A non-numeric page never propagates past this point.
func (c Config) Decode(vals url.Values) State {
	page, err := strconv.Atoi(vals.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(vals.Get(ParamPageSize))
	if err != nil || !containsInt(c.pageSizes(), size) {
		size = DefaultPageSize
	}

	field := vals.Get(ParamSortField)
	if !c.knownField(field) {
		field = c.DefaultSort
	}

	order := c.defaultOrder()
	if raw := vals.Get(ParamSortOrder); raw != "" {
		order = ParseOrder(raw)
	}

	columns := c.Labels()
	if raw := vals.Get(ParamColumns); raw != "" {
		columns = c.decodeColumns(raw)
	}

	return State{
		Search:    vals.Get(ParamSearch),
		Page:      page,
		PageSize:  size,
		SortField: field,
		SortOrder: order,
		Columns:   columns,
	}
}

func (c Config) decodeColumns(raw string) []string {
	var columns []string
	for _, label := range strings.Split(raw, ",") {
		label = strings.TrimSpace(label)
		if label == "" || !c.hasLabel(label) {
			continue
		}
		columns = append(columns, label)
	}
	return columns
}

func (c Config) hasLabel(label string) bool {
	for _, col := range c.Columns {
		if col.Label == label {
			return true
		}
	}
	return false
}

// Encode serializes a State back into URL values. Parameters that equal
// their defaults are omitted so filters never dirty the URL; Decode(Encode(s))
// round-trips for any state reachable through Decode and Merge.
func (c Config) Encode(s State) url.Values {
	vals := url.Values{}
	if s.Search != "" {
		vals.Set(ParamSearch, s.Search)
	}
	if s.Page > 1 {
		vals.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != 0 && s.PageSize != DefaultPageSize {
		vals.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	if s.SortField != "" && s.SortField != c.DefaultSort {
		vals.Set(ParamSortField, s.SortField)
	}
	if s.SortOrder != "" && s.SortOrder != c.defaultOrder() {
		vals.Set(ParamSortOrder, string(s.SortOrder))
	}
	if s.Columns != nil && !equalStrings(s.Columns, c.Labels()) {
		vals.Set(ParamColumns, strings.Join(s.Columns, ","))
	}
	return vals
}

// Merge applies a partial update onto existing query values: mentioned keys
// are overwritten, an empty value deletes the key, unmentioned keys survive.
// The input values are not modified.
func Merge(vals url.Values, partial map[string]string) url.Values {
	merged := url.Values{}
	for key, values := range vals {
		merged[key] = append([]string(nil), values...)
	}
	for key, value := range partial {
		if value == "" {
			merged.Del(key)
			continue
		}
		merged.Set(key, value)
	}
	return merged
}

// Sort handles a header click on the given display label. Unmapped labels
// are no-ops. Clicking the active column flips the direction; switching
// columns always restarts ascending.
func (c Config) Sort(s State, label string) State {
	field := c.Field(label)
	if field == "" {
		return s
	}
	if field == s.SortField {
		s.SortOrder = s.SortOrder.Flip()
		return s
	}
	s.SortField = field
	s.SortOrder = OrderAsc
	return s
}

// ToggleColumn removes the label when visible, otherwise appends it at the
// end of the visible list. Re-added columns do not return to their original
// position.
func (s State) ToggleColumn(label string) State {
	for i, existing := range s.Columns {
		if existing == label {
			s.Columns = append(append([]string(nil), s.Columns[:i]...), s.Columns[i+1:]...)
			return s
		}
	}
	s.Columns = append(append([]string(nil), s.Columns...), label)
	return s
}

// TotalPages computes the page count from the last known total. A list is
// never zero pages long.
func (s State) TotalPages() int {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := int(math.Ceil(float64(s.Total) / float64(size)))
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamped returns a copy with the page pulled into [1, TotalPages].
// Out-of-range navigation is corrected, never rejected.
func (s State) Clamped() State {
	if pages := s.TotalPages(); s.Page > pages {
		s.Page = pages
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// Offset is the SQL offset for the current page.
func (s State) Offset() int {
	if s.Page < 1 {
		return 0
	}
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return (s.Page - 1) * size
}

// Limit is the SQL limit for the current page.
func (s State) Limit() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

// OrderBy maps the state's sort field through the column map to a safe
// ORDER BY clause. Fields not present in the config fall back to the
// configured default so user input never reaches the SQL text.
func (c Config) OrderBy(s State) string {
	field := s.SortField
	if !c.knownField(field) {
		field = c.DefaultSort
	}
	expr := field
	for _, col := range c.Columns {
		if col.Field == field && col.Expr != "" {
			expr = col.Expr
			break
		}
	}
	dir := "ASC"
	if s.SortOrder == OrderDesc {
		dir = "DESC"
	}
	return expr + " " + dir
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
