package domain

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int range.
	MaxPage = math.MaxInt / MaxLimit
)

// Page is a normalized page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage normalizes page/limit: non-positive values fall back to the
// defaults, the limit is capped at MaxLimit and the page at MaxPage.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if number > MaxPage {
		number = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

// ParsePage builds a Page from raw query values. Non-numeric input is
// treated as absent.
func ParsePage(number, limit string) Page {
	n, err := strconv.Atoi(number)
	if err != nil {
		n = 0
	}
	l, err := strconv.Atoi(limit)
	if err != nil {
		l = 0
	}
	return NewPage(n, l)
}

// Skip is the number of documents preceding the page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// PageInfo describes a returned page.
type PageInfo struct {
	TotalCount  int64
	TotalPages  int
	CurrentPage int
	Limit       int
}

func NewPageInfo(p Page, total int64) PageInfo {
	return PageInfo{
		TotalCount:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(p.Limit))),
		CurrentPage: p.Number,
		Limit:       p.Limit,
	}
}
