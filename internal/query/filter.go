package query

import "net/url"

// Filter is a conjunction of optional field predicates. A nil pointer or
// empty string means "no constraint". It is a pure data description: the
// storage layer is the only place that translates it into SQL.
type Filter struct {
	// Category matches as a case-insensitive substring.
	Category string
	// Text searches title and notes, case-insensitive substring.
	Text string
	// Year, Month and Day compose independently: year-only, year+month
	// and year+month+day are all valid combinations.
	Year  *int
	Month *int
	Day   *int
}

// IsZero reports whether the filter carries no predicates at all.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Text == "" && f.Year == nil && f.Month == nil && f.Day == nil
}

// Sort directions for list queries. The zero value means "default":
// newest first by the entity's primary date field.
type Sort int

const (
	SortDefault Sort = iota
	SortNewest
	SortOldest
)

const DefaultPageSize = 10

// Page is a 1-indexed page window. Out-of-range pages yield empty
// results, never errors.
type Page struct {
	Number int
	Size   int
	Sort   Sort
}

// Offset returns the number of records to skip: (page-1) * size.
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Limit()
}

// Limit returns the page size, defaulting when unset.
func (p Page) Limit() int {
	if p.Size < 1 {
		return DefaultPageSize
	}
	return p.Size
}

// TotalPages computes ceil(total / size) for pagination links.
func (p Page) TotalPages(total int) int {
	size := p.Limit()
	return (total + size - 1) / size
}

// FromValues builds a filter from decoded query or form parameters.
// Absent or malformed values contribute no predicate; a ym token is an
// alternate encoding of year+month and decomposes into both. Explicit
// year/month parameters win over the token.
func FromValues(values url.Values) Filter {
	var f Filter
	f.Category = values.Get("category")
	f.Text = values.Get("q")

	if y, m, ok := ParseYearMonth(values.Get("ym")); ok {
		f.Year = &y
		f.Month = &m
	}
	if y, ok := ParseOptionalInt(values.Get("year")); ok {
		f.Year = &y
	}
	if m, ok := ParseOptionalInt(values.Get("month")); ok {
		f.Month = &m
	}
	if d, ok := ParseOptionalInt(values.Get("day")); ok {
		f.Day = &d
	}
	return f
}

// PageFromValues reads the page number from parameters, clamping to 1.
func PageFromValues(values url.Values) Page {
	p := Page{Number: 1}
	if n, ok := ParseOptionalInt(values.Get("page")); ok && n >= 1 {
		p.Number = n
	}
	return p
}
