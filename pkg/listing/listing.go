// Package listing is the shared filter/sort/paginate helper used by every
// admin listing endpoint. Each page parameterizes it with its own predicates
// and comparator instead of re-implementing the loop.
package listing

import (
	"sort"
	"strings"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// Predicate reports whether a record passes one filter criterion.
type Predicate[T any] func(T) bool

// Comparator reports whether a sorts before b.
type Comparator[T any] func(a, b T) bool

// Result carries one page of a filtered, sorted listing.
type Result[T any] struct {
	Items []T             `json:"items"`
	Page  pagination.Page `json:"page"`
}

// Filter applies the conjunction of the provided predicates. Nil predicates
// are skipped so callers can pass optional criteria unconditionally.
func Filter[T any](records []T, predicates ...Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if matchesAll(record, predicates) {
			out = append(out, record)
		}
	}
	return out
}

func matchesAll[T any](record T, predicates []Predicate[T]) bool {
	for _, predicate := range predicates {
		if predicate == nil {
			continue
		}
		if !predicate(record) {
			return false
		}
	}
	return true
}

// Sort orders a copy of records by the comparator, leaving the input intact.
// A nil comparator preserves the incoming order.
func Sort[T any](records []T, less Comparator[T]) []T {
	out := make([]T, len(records))
	copy(out, records)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// Paginate slices one page out of records with clamped page bookkeeping.
func Paginate[T any](records []T, params pagination.Params) Result[T] {
	page := pagination.Describe(params, len(records))
	start, end := pagination.Bounds(page)
	items := make([]T, end-start)
	copy(items, records[start:end])
	return Result[T]{Items: items, Page: page}
}

// Apply runs the full filter, sort, paginate pipeline.
func Apply[T any](records []T, params pagination.Params, less Comparator[T], predicates ...Predicate[T]) Result[T] {
	filtered := Filter(records, predicates...)
	ordered := Sort(filtered, less)
	return Paginate(ordered, params)
}

// TextSearch builds a predicate matching the query as a case-insensitive
// substring across the values returned by fields. An empty query matches
// everything.
func TextSearch[T any](query string, fields func(T) []string) Predicate[T] {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	return func(record T) bool {
		for _, value := range fields(record) {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
		return false
	}
}

// Equals builds a predicate matching an exact field value, typically a status
// or category enum. An empty want matches everything.
func Equals[T any](want string, field func(T) string) Predicate[T] {
	if strings.TrimSpace(want) == "" {
		return nil
	}
	return func(record T) bool {
		return field(record) == want
	}
}

// DateRange builds a predicate keeping records whose ISO date (YYYY-MM-DD,
// lexicographically ordered) falls inside the inclusive range. Empty bounds
// are open-ended.
func DateRange[T any](from, to string, field func(T) string) Predicate[T] {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil
	}
	return func(record T) bool {
		value := field(record)
		if from != "" && value < from {
			return false
		}
		if to != "" && value > to {
			return false
		}
		return true
	}
}
