// Package pagination computes skip/limit windows and page metadata shared by
// the post and report listings.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	DefaultPage  = 1
	MaxLimit     = 100
)

// Params is a validated limit/page pair.
type Params struct {
	Limit int
	Page  int
}

// Info is the pagination block returned next to a listing.
type Info struct {
	Count int64 `json:"count"`
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
	Limit int   `json:"limit"`
}

// New falls back to the defaults for values below 1 and caps limit at MaxLimit.
// Page is capped so that Skip never overflows.
func New(limit, page int) Params {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 {
		page = DefaultPage
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Params{Limit: limit, Page: page}
}

func (p Params) Skip() int {
	return p.Limit * (p.Page - 1)
}

// Info builds the page metadata for count matching rows.
func (p Params) Info(count int64) Info {
	limit := int64(p.Limit)
	return Info{
		Count: count,
		Page:  p.Page,
		Pages: (count + limit - 1) / limit,
		Limit: p.Limit,
	}
}

// Scope applies the offset and limit to a query.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Skip()).Limit(p.Limit)
}
