// Package collection filters, sorts and paginates catalog items on the
// client. One generic engine serves every catalog; entity bindings only
// supply accessors.
package collection

import (
	"cmp"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortRating SortKey = "rating"
	SortPrice  SortKey = "price"
	SortName   SortKey = "name"
)

// Predicate is a named filter. Active decides whether the criterion is set;
// an inactive predicate accepts every item.
type Predicate[T any] struct {
	Name   string
	Active func(FilterCriteria) bool
	Match  func(FilterCriteria, T) bool
}

// Comparator orders two items, returning <0, 0 or >0 like cmp.Compare.
type Comparator[T any] func(a, b T) int

// Result is one computed page of a collection.
type Result[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalCount int
}

type Engine[T any] struct {
	pageSize    int
	predicates  []Predicate[T]
	comparators map[SortKey]Comparator[T]
	keys        []SortKey
}

// NewEngine builds an engine. keys lists the sort keys in display order;
// each must have a comparator in cmps.
func NewEngine[T any](pageSize int, preds []Predicate[T], keys []SortKey, cmps map[SortKey]Comparator[T]) *Engine[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine[T]{
		pageSize:    pageSize,
		predicates:  preds,
		comparators: cmps,
		keys:        keys,
	}
}

func (e *Engine[T]) PageSize() int { return e.pageSize }

// SortKeys returns the supported sort keys in display order.
func (e *Engine[T]) SortKeys() []SortKey { return slices.Clone(e.keys) }

// Filter keeps the items matching every active predicate. The input is not
// modified.
func (e *Engine[T]) Filter(items []T, c FilterCriteria) []T {
	active := make([]Predicate[T], 0, len(e.predicates))
	for _, p := range e.predicates {
		if p.Active == nil || p.Active(c) {
			active = append(active, p)
		}
	}

	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range active {
			if !p.Match(c, it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Sort returns a stably sorted copy. Unknown keys keep source order.
func (e *Engine[T]) Sort(items []T, key SortKey) []T {
	out := slices.Clone(items)
	if fn, ok := e.comparators[key]; ok {
		slices.SortStableFunc(out, fn)
	}
	return out
}

// View filters, sorts and slices items for the requested page. The page is
// clamped into [1, TotalPages].
func (e *Engine[T]) View(items []T, c FilterCriteria, key SortKey, page int) Result[T] {
	filtered := e.Sort(e.Filter(items, c), key)
	pg := Paginate(len(filtered), e.pageSize, page)
	return Result[T]{
		Items:      filtered[pg.Start:pg.End],
		Page:       pg.Number,
		TotalPages: pg.TotalPages,
		TotalCount: len(filtered),
	}
}

// Set-membership predicate over a string field (category, city).
func memberPredicate[T any](name string, set func(FilterCriteria) []string, get func(T) string) Predicate[T] {
	return Predicate[T]{
		Name:   name,
		Active: func(c FilterCriteria) bool { return len(set(c)) > 0 },
		Match:  func(c FilterCriteria, it T) bool { return containsFold(set(c), get(it)) },
	}
}

func CategoryPredicate[T any](get func(T) string) Predicate[T] {
	return memberPredicate("category", func(c FilterCriteria) []string { return c.Categories }, get)
}

func CityPredicate[T any](get func(T) string) Predicate[T] {
	return memberPredicate("city", func(c FilterCriteria) []string { return c.Cities }, get)
}

func RatingPredicate[T any](get func(T) float64) Predicate[T] {
	return Predicate[T]{
		Name:   "rating",
		Active: func(c FilterCriteria) bool { return c.Rating != nil },
		Match:  func(c FilterCriteria, it T) bool { return c.Rating.Contains(get(it)) },
	}
}

func PricePredicate[T any](get func(T) float64) Predicate[T] {
	return Predicate[T]{
		Name:   "price",
		Active: func(c FilterCriteria) bool { return c.Price != nil },
		Match:  func(c FilterCriteria, it T) bool { return c.Price.Contains(get(it)) },
	}
}

func Ascending[T any](get func(T) float64) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}

func Descending[T any](get func(T) float64) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(get(b), get(a)) }
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
)

// ByName orders by locale-aware collation rather than byte order, so
// "Émir" sorts next to "Emir".
func ByName[T any](get func(T) string) Comparator[T] {
	return func(a, b T) int {
		collatorMu.Lock()
		defer collatorMu.Unlock()
		return collator.CompareString(get(a), get(b))
	}
}

// Distinct returns the sorted set of non-empty values of a field, used to
// build facet lists.
func Distinct[T any](items []T, get func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		v := get(it)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	slices.SortFunc(out, collator.CompareString)
	return out
}
