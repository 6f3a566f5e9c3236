package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams are the 1-based page number and page size of a list request.
type PageParams struct {
	Page     int `form:"page" validate:"min=1"`
	PageSize int `form:"page_size" validate:"min=1,max=100"`
}

func DefaultPageParams() PageParams {
	return PageParams{Page: 1, PageSize: DefaultPageSize}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one slice of a sorted result set plus the totals needed to page through it.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage builds a Page, computing total_pages as ceil(total/page_size).
func NewPage[T any](items []T, total int64, p PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	var pages int64
	if p.PageSize > 0 {
		pages = (total + int64(p.PageSize) - 1) / int64(p.PageSize)
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}
}
