// Package pagination derives page windows from an item count and page size.
//
// Everything here is a pure function of (itemCount, pageSize, currentPage,
// maxButtons). Paginator keeps the small amount of state a UI session needs and
// re-clamps the current page whenever the item count changes, so a derived
// value never refers to a page past the last one.
package pagination

import "strconv"

const (
	// DefaultMaxButtons is the number of page buttons shown before the window
	// collapses into ellipses.
	DefaultMaxButtons = 5
	// Ellipsis is the marker rendered for a collapsed run of pages.
	Ellipsis = "…"

	// pages shown either side of the current page in a collapsed window
	neighbours = 2
)

// PageButton is one entry of a page window: either a page number or an ellipsis.
type PageButton struct {
	Page     int
	Ellipsis bool
}

// String renders the button as its page number or the ellipsis marker.
func (b PageButton) String() string {
	if b.Ellipsis {
		return Ellipsis
	}
	return strconv.Itoa(b.Page)
}

// TotalPages returns max(1, ceil(itemCount/pageSize)). A page size below 1 is treated as 1.
func TotalPages(itemCount, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if itemCount <= 0 {
		return 1
	}
	return (itemCount + pageSize - 1) / pageSize
}

// Clamp bounds page into [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Window builds the compressed page-button sequence for the given state.
//
// When every page fits (totalPages <= maxButtons+2) all pages are listed.
// Otherwise the first and last pages are always present, surrounded pages
// run from max(2, current-2) to min(total-1, current+2), and a single ellipsis
// stands in for each gap. Ellipses can never be adjacent: each is only emitted
// between a fixed end page and a non-empty middle run.
func Window(totalPages, currentPage, maxButtons int) []PageButton {
	if totalPages < 1 {
		totalPages = 1
	}
	if maxButtons < 1 {
		maxButtons = 1
	}
	current := Clamp(currentPage, totalPages)

	if totalPages <= maxButtons+2 {
		buttons := make([]PageButton, 0, totalPages)
		for page := 1; page <= totalPages; page++ {
			buttons = append(buttons, PageButton{Page: page})
		}
		return buttons
	}

	start := max(2, current-neighbours)
	end := min(totalPages-1, current+neighbours)

	buttons := make([]PageButton, 0, end-start+5)
	buttons = append(buttons, PageButton{Page: 1})
	if start > 2 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	for page := start; page <= end; page++ {
		buttons = append(buttons, PageButton{Page: page})
	}
	if end < totalPages-1 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	buttons = append(buttons, PageButton{Page: totalPages})

	return buttons
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithMaxButtons overrides DefaultMaxButtons.
func WithMaxButtons(n int) Option {
	return func(p *Paginator) {
		if n >= 1 {
			p.maxButtons = n
		}
	}
}

// WithInitialPage sets the page the paginator starts on. Reads clamp it, and
// the first OnListChanged settles it against the real item count.
func WithInitialPage(page int) Option {
	return func(p *Paginator) {
		p.currentPage = page
	}
}

// Paginator holds the current page of one list view.
// It is not safe for concurrent use.
type Paginator struct {
	pageSize    int
	maxButtons  int
	currentPage int
	itemCount   int
}

// New creates a Paginator for pages of pageSize items (values below 1 become 1).
func New(pageSize int, opts ...Option) *Paginator {
	p := &Paginator{
		pageSize:    max(1, pageSize),
		maxButtons:  DefaultMaxButtons,
		currentPage: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnListChanged records the new length of the backing list and re-clamps the
// current page. Call it after every list mutation, before reading derived values.
func (p *Paginator) OnListChanged(itemCount int) {
	p.itemCount = max(0, itemCount)
	p.currentPage = Clamp(p.currentPage, p.TotalPages())
}

// SetPageSize changes the page size and re-clamps the current page.
func (p *Paginator) SetPageSize(pageSize int) {
	p.pageSize = max(1, pageSize)
	p.currentPage = Clamp(p.currentPage, p.TotalPages())
}

// GoToPage moves to page n, silently clamped into [1, TotalPages].
func (p *Paginator) GoToPage(n int) {
	p.currentPage = Clamp(n, p.TotalPages())
}

// Reset moves back to the first page.
func (p *Paginator) Reset() {
	p.currentPage = 1
}

// CurrentPage returns the effective (clamped) page.
func (p *Paginator) CurrentPage() int {
	return Clamp(p.currentPage, p.TotalPages())
}

// PageSize returns the configured page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// ItemCount returns the last count passed to OnListChanged.
func (p *Paginator) ItemCount() int {
	return p.itemCount
}

// TotalPages returns the number of pages for the current item count.
func (p *Paginator) TotalPages() int {
	return TotalPages(p.itemCount, p.pageSize)
}

// StartIndex returns the index of the first item on the current page.
func (p *Paginator) StartIndex() int {
	return (p.CurrentPage() - 1) * p.pageSize
}

// Window returns the page-button sequence for the current page.
func (p *Paginator) Window() []PageButton {
	return Window(p.TotalPages(), p.CurrentPage(), p.maxButtons)
}

// Slice returns the items on the paginator's current page. An out-of-range page
// yields an empty slice. The result aliases items.
func Slice[T any](p *Paginator, items []T) []T {
	start := p.StartIndex()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.pageSize, len(items))
	return items[start:end]
}
