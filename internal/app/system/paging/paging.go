// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit and DefaultPage apply when a list request omits limit/page.
// MaxPage keeps Skip well inside int64 for any accepted limit.
const (
	DefaultLimit = 10
	DefaultPage  = 1
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// Params is a parsed limit/page pair. Page is 1-based.
type Params struct {
	Limit int
	Page  int
}

// Parse reads the optional "limit" and "page" query parameters.
// Missing, non-numeric, or non-positive values fall back to the defaults;
// limit is capped at MaxLimit and page at MaxPage.
func Parse(r *http.Request) Params {
	p := Params{
		Limit: positiveInt(query.Get(r, "limit"), DefaultLimit),
		Page:  positiveInt(query.Get(r, "page"), DefaultPage),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func positiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip is the number of documents before this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// FindOptions returns skip/limit options with the given sort applied.
func (p Params) FindOptions(sort interface{}) *options.FindOptions {
	opts := options.Find().SetSkip(p.Skip()).SetLimit(int64(p.Limit))
	if sort != nil {
		opts.SetSort(sort)
	}
	return opts
}

// Page is the JSON shape every paginated list returns.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage wraps items; a nil slice is rendered as [].
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
