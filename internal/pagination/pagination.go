// Package pagination implements the cursor-based page window used by the
// listing endpoints. A cursor is the id of the last row the client has seen;
// queries fetch limit+1 rows so the presence of a following page is known
// without a count.
package pagination

import "strings"

const (
	// DefaultLimit is applied when the client does not request a page size.
	DefaultLimit = 10
	// MaxLimit bounds the page size a client may request.
	MaxLimit = 100

	// DefaultSortField orders pages by row creation time unless overridden.
	DefaultSortField = "created_at"
)

// Order is a sort direction keyword, normalized to upper case.
type Order string

const (
	Asc  Order = "ASC"
	Desc Order = "DESC"
)

// Params describes one requested page window.
type Params struct {
	Limit     int
	Cursor    string
	SortField string
	SortOrder Order
}

// Normalized clamps the limit into [1, MaxLimit], defaults the sort key to
// created_at descending, and rejects sort fields outside the allowed set by
// falling back to the default. Rows that tie on the sort field are expected
// to be tie-broken by id descending so the ordering is deterministic.
func (p Params) Normalized(allowedFields ...string) Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	p.SortField = strings.ToLower(strings.TrimSpace(p.SortField))
	if p.SortField == "" || !contains(allowedFields, p.SortField) {
		p.SortField = DefaultSortField
	}

	switch Order(strings.ToUpper(strings.TrimSpace(string(p.SortOrder)))) {
	case Asc:
		p.SortOrder = Asc
	default:
		p.SortOrder = Desc
	}

	return p
}

// FetchLimit is the number of rows to request: one more than the page size,
// so the extra row signals a following page.
func (p Params) FetchLimit() int {
	return p.Limit + 1
}

// Meta reports whether a following page exists and the cursor to fetch it.
type Meta struct {
	HasNextPage bool    `json:"hasNextPage"`
	NewCursor   *string `json:"newCursor"`
}

// Trim cuts a fetched row set down to the page limit and derives the paging
// metadata. The id function yields the cursor value of a row.
func Trim[T any](rows []T, limit int, id func(T) string) ([]T, Meta) {
	if len(rows) <= limit {
		return rows, Meta{}
	}

	rows = rows[:limit]
	cursor := id(rows[len(rows)-1])
	return rows, Meta{HasNextPage: true, NewCursor: &cursor}
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
