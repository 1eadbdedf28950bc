package collection

// FilterState owns the criteria of one browse view and tells subscribers
// about every change before the mutating call returns.
type FilterState struct {
	criteria FilterCriteria
	subs     []func(FilterCriteria)
}

func NewFilterState() *FilterState {
	return &FilterState{}
}

// Criteria returns a copy of the current selection.
func (f *FilterState) Criteria() FilterCriteria {
	return f.criteria.Clone()
}

func (f *FilterState) Subscribe(fn func(FilterCriteria)) {
	f.subs = append(f.subs, fn)
}

func (f *FilterState) HasActive() bool {
	return f.criteria.Active()
}

func (f *FilterState) ToggleCategory(category string) {
	f.criteria.Categories = toggle(f.criteria.Categories, category)
	f.notify()
}

func (f *FilterState) ToggleCity(city string) {
	f.criteria.Cities = toggle(f.criteria.Cities, city)
	f.notify()
}

func (f *FilterState) SetRating(lo, hi float64) error {
	r, err := NewRange(lo, hi, RatingMin, RatingMax)
	if err != nil {
		return err
	}
	f.criteria.Rating = &r
	f.notify()
	return nil
}

func (f *FilterState) SetPrice(lo, hi float64) error {
	r, err := NewRange(lo, hi, PriceMin, PriceMax)
	if err != nil {
		return err
	}
	f.criteria.Price = &r
	f.notify()
	return nil
}

func (f *FilterState) ClearRating() {
	f.criteria.Rating = nil
	f.notify()
}

func (f *FilterState) ClearPrice() {
	f.criteria.Price = nil
	f.notify()
}

// Clear drops every criterion.
func (f *FilterState) Clear() {
	f.criteria = FilterCriteria{}
	f.notify()
}

func (f *FilterState) notify() {
	c := f.criteria.Clone()
	for _, fn := range f.subs {
		fn(c)
	}
}

// Browser binds an engine, a filter state and a pager into the state of one
// browse view. Any criteria change resets the page to 1 before the view is
// recomputed. Not safe for concurrent use; it lives on the UI loop.
type Browser[T any] struct {
	engine  *Engine[T]
	filters *FilterState
	pager   Pager
	sort    SortKey
	items   []T
	view    Result[T]
}

func NewBrowser[T any](engine *Engine[T], sort SortKey) *Browser[T] {
	b := &Browser[T]{
		engine:  engine,
		filters: NewFilterState(),
		sort:    sort,
	}
	b.filters.Subscribe(func(FilterCriteria) {
		b.pager.Reset()
		b.refresh()
	})
	b.refresh()
	return b
}

func (b *Browser[T]) Filters() *FilterState { return b.filters }

func (b *Browser[T]) Engine() *Engine[T] { return b.engine }

func (b *Browser[T]) Sort() SortKey { return b.sort }

// Items returns the unfiltered source items.
func (b *Browser[T]) Items() []T { return b.items }

// SetItems replaces the source collection, typically after a fetch, and
// starts again from the first page.
func (b *Browser[T]) SetItems(items []T) {
	b.items = items
	b.pager.Reset()
	b.refresh()
}

func (b *Browser[T]) SetSort(key SortKey) {
	b.sort = key
	b.refresh()
}

// CycleSort advances to the next supported sort key.
func (b *Browser[T]) CycleSort() SortKey {
	keys := b.engine.SortKeys()
	if len(keys) == 0 {
		return b.sort
	}
	next := keys[0]
	for i, k := range keys {
		if k == b.sort {
			next = keys[(i+1)%len(keys)]
			break
		}
	}
	b.SetSort(next)
	return next
}

func (b *Browser[T]) Next() {
	b.pager.Next(b.view.TotalPages)
	b.refresh()
}

func (b *Browser[T]) Prev() {
	b.pager.Prev()
	b.refresh()
}

// JumpTo goes to page if it exists; otherwise nothing changes.
func (b *Browser[T]) JumpTo(page int) bool {
	if !b.pager.JumpTo(page, b.view.TotalPages) {
		return false
	}
	b.refresh()
	return true
}

func (b *Browser[T]) View() Result[T] { return b.view }

func (b *Browser[T]) Labels() []PageLabel {
	return PageLabels(b.view.Page, b.view.TotalPages)
}

func (b *Browser[T]) refresh() {
	b.view = b.engine.View(b.items, b.filters.criteria, b.sort, b.pager.Current())
	b.pager.Clamp(b.view.TotalPages)
}
