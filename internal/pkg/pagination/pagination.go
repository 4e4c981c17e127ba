// Package pagination parses page/limit query params and builds the list
// envelope returned by paginated endpoints.
package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100

	// MaxPage держит (Page-1)*MaxLimit в пределах int32.
	MaxPage = math.MaxInt32/MaxLimit + 1
)

type Params struct {
	Page  int
	Limit int
}

// FromQuery читает ?page=&limit=, некорректные значения заменяются дефолтами.
func FromQuery(c *gin.Context) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

func NewPage[T any](results []T, total int64, p Params) Page[T] {
	if results == nil {
		results = []T{}
	}

	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	return Page[T]{
		Count:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Results:    results,
	}
}
