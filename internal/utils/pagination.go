package utils

import "math"

// PageSize is the fixed number of posts per listing page.
const PageSize = 10

// Page is one fixed-size slice of an ordered listing plus the metadata the
// pagination controls need.
type Page struct {
	Number     int   // 1-based, always within [1, TotalPages]
	Total      int64 // items across all pages
	TotalPages int
	PerPage    int
}

// NewPage clamps the requested page number into the valid range for the given
// total. Requests below 1 (including unparseable input coerced to 0) land on
// the first page, requests past the end land on the last.
func NewPage(total int64, requested int) Page {
	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Total:      total,
		TotalPages: totalPages,
		PerPage:    PageSize,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) PrevNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}
