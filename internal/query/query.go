// Package query filters, sorts and paginates in-memory record slices.
//
// Each view describes its columns with a Fields table: which wire names can be
// sorted on, which are numeric, and which take part in free-text search. The
// same Apply then serves transactions, alerts and reviews.
package query

import (
	"sort"
	"strconv"
	"strings"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Kind tells Apply how to compare a field.
type Kind int

const (
	String Kind = iota
	Number
)

// Field reads one column from a record. The boolean result is false when the
// value is missing; missing values sort last in either direction.
type Field[T any] struct {
	Kind       Kind
	Searchable bool
	Str        func(T) (string, bool)
	Num        func(T) (float64, bool)
}

// Fields maps wire field names to accessors.
type Fields[T any] map[string]Field[T]

// StringField builds an always-present string column.
func StringField[T any](get func(T) string, searchable bool) Field[T] {
	return Field[T]{Kind: String, Searchable: searchable, Str: func(v T) (string, bool) { return get(v), true }}
}

// NumberField builds an always-present numeric column.
func NumberField[T any](get func(T) float64, searchable bool) Field[T] {
	return Field[T]{Kind: Number, Searchable: searchable, Num: func(v T) (float64, bool) { return get(v), true }}
}

// Params are the query-string parameters shared by the list endpoints.
// The zero value returns every item in original order.
type Params struct {
	Search    string
	Status    string // exact match against the "status" field when set
	SortBy    string
	SortOrder string // "asc" or "desc"; anything else sorts ascending
	Page      int    // 1-based; values below 1 mean 1
	PerPage   int    // <= 0 disables pagination
}

// Result is one page of items plus the filtered total.
type Result[T any] struct {
	Items []T
	Total int
}

// Apply filters, sorts and slices items. It never modifies the input slice.
// An unknown SortBy leaves the filtered items in their original order.
func Apply[T any](items []T, p Params, fields Fields[T]) Result[T] {
	filtered := Filter(items, p, fields)
	Sort(filtered, p.SortBy, p.SortOrder, fields)
	return Result[T]{Items: Paginate(filtered, p.Page, p.PerPage), Total: len(filtered)}
}

// Filter returns the items matching the status and search parameters, in order.
func Filter[T any](items []T, p Params, fields Fields[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(p.Search))
	statusField, hasStatus := fields["status"]

	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Status != "" && hasStatus {
			s, ok := statusField.text(it)
			if !ok || s != p.Status {
				continue
			}
		}
		if needle != "" && !matches(it, needle, fields) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches[T any](it T, needle string, fields Fields[T]) bool {
	for _, f := range fields {
		if !f.Searchable {
			continue
		}
		if s, ok := f.text(it); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// Sort orders items in place by the named field. Ties keep their relative
// order. Unknown fields are a no-op.
func Sort[T any](items []T, sortBy, order string, fields Fields[T]) {
	f, ok := fields[sortBy]
	if !ok {
		return
	}
	sign := 1
	if order == Desc {
		sign = -1
	}
	sort.SliceStable(items, func(i, j int) bool {
		return f.compare(items[i], items[j], sign) < 0
	})
}

// compare orders a before b (<0), after (>0) or as equal. Missing values go
// last regardless of sign.
func (f Field[T]) compare(a, b T, sign int) int {
	if f.Kind == Number {
		av, aok := f.Num(a)
		bv, bok := f.Num(b)
		if c, done := missingLast(aok, bok); done {
			return c
		}
		switch {
		case av < bv:
			return -sign
		case av > bv:
			return sign
		}
		return 0
	}

	as, aok := f.Str(a)
	bs, bok := f.Str(b)
	if c, done := missingLast(aok, bok); done {
		return c
	}
	return sign * strings.Compare(as, bs)
}

func missingLast(aok, bok bool) (int, bool) {
	switch {
	case !aok && !bok:
		return 0, true
	case !aok:
		return 1, true
	case !bok:
		return -1, true
	}
	return 0, false
}

// text returns the searchable string form of the field.
func (f Field[T]) text(it T) (string, bool) {
	if f.Kind == Number {
		v, ok := f.Num(it)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return f.Str(it)
}

// Paginate returns the 1-based page of items. Out-of-range pages are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	if page-1 > len(items)/perPage {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
