package collection

import "strconv"

const DefaultPageSize = 12

// pageWindow is how many pages either side of the current one get a label.
const pageWindow = 2

// Page describes one slice of a collection. Start and End index into the
// filtered, sorted items.
type Page struct {
	Number     int
	Size       int
	TotalPages int
	Start      int
	End        int
}

// Paginate computes the window for page. An empty collection still has one
// (empty) page, and out-of-range pages are clamped.
func Paginate(count, size, page int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := (count + size - 1) / size
	if total < 1 {
		total = 1
	}
	page = clamp(page, 1, total)

	start := (page - 1) * size
	end := min(start+size, count)
	if start > count {
		start = count
	}
	return Page{Number: page, Size: size, TotalPages: total, Start: start, End: end}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pager holds the current page of a browse view.
type Pager struct {
	current int
}

func (p *Pager) Current() int {
	if p.current < 1 {
		return 1
	}
	return p.current
}

func (p *Pager) Reset() { p.current = 1 }

func (p *Pager) Next(totalPages int) {
	p.current = clamp(p.Current()+1, 1, max(totalPages, 1))
}

func (p *Pager) Prev() {
	p.current = max(p.Current()-1, 1)
}

// JumpTo moves to page when it exists and reports whether it moved.
// Out-of-range requests leave the pager untouched.
func (p *Pager) JumpTo(page, totalPages int) bool {
	if page < 1 || page > totalPages {
		return false
	}
	p.current = page
	return true
}

// Clamp pulls the current page back inside [1, totalPages].
func (p *Pager) Clamp(totalPages int) {
	p.current = clamp(p.Current(), 1, max(totalPages, 1))
}

// PageLabel is one entry of the page selector. A zero Page is the ellipsis
// gap marker.
type PageLabel struct {
	Page int
}

func (l PageLabel) IsEllipsis() bool { return l.Page == 0 }

func (l PageLabel) String() string {
	if l.IsEllipsis() {
		return "..."
	}
	return strconv.Itoa(l.Page)
}

// PageLabels lists the selector entries: the first and last page, a window
// of two pages around current, and an ellipsis wherever more than one page
// is hidden. A gap of exactly one page shows that page instead.
func PageLabels(current, total int) []PageLabel {
	if total <= 1 {
		return []PageLabel{{Page: 1}}
	}
	current = clamp(current, 1, total)

	start := max(2, current-pageWindow)
	end := min(total-1, current+pageWindow)
	if start == 3 {
		start = 2
	}
	if end == total-2 {
		end = total - 1
	}

	labels := []PageLabel{{Page: 1}}
	if start > 3 {
		labels = append(labels, PageLabel{})
	}
	for p := start; p <= end; p++ {
		labels = append(labels, PageLabel{Page: p})
	}
	if end < total-2 {
		labels = append(labels, PageLabel{})
	}
	return append(labels, PageLabel{Page: total})
}
