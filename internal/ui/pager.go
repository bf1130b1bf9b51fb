package ui

// songsPerPage matches the server UI's fixed page size for playlist songs.
const songsPerPage = 5

// Pager slices a list into fixed-size pages. Pages are 1-based; the pager
// clamps itself so the current page always exists.
type Pager struct {
	page  int
	size  int
	total int
}

// NewPager creates a pager on page 1. A non-positive size falls back to
// songsPerPage.
func NewPager(size int) Pager {
	if size <= 0 {
		size = songsPerPage
	}
	return Pager{page: 1, size: size}
}

// SetTotal records the list length and clamps the current page into range.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	if p.page > p.TotalPages() {
		p.page = p.TotalPages()
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Reset returns to the first page. Called whenever the underlying list is
// reloaded or mutated.
func (p *Pager) Reset() {
	p.page = 1
}

// Page returns the current 1-based page number.
func (p Pager) Page() int { return p.page }

// TotalPages returns the page count; an empty list still has one page.
func (p Pager) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.page > 1 }

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.page < p.TotalPages() }

// Prev moves back one page when possible.
func (p *Pager) Prev() {
	if p.HasPrev() {
		p.page--
	}
}

// Next moves forward one page when possible.
func (p *Pager) Next() {
	if p.HasNext() {
		p.page++
	}
}

// Bounds returns the half-open index range of the current page.
func (p Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	end = start + p.size
	if start > p.total {
		start = p.total
	}
	if end > p.total {
		end = p.total
	}
	return start, end
}

// ShowControls reports whether paging controls should render at all.
// Single-page lists get none.
func (p Pager) ShowControls() bool {
	return p.TotalPages() > 1
}
