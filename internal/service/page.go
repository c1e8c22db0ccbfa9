package service

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a zero-based page index and a page size.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Page is one slice of a sorted listing.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// newPage wraps items and rejects a page index at or beyond the last page.
// An empty listing has zero pages and page 0 of it is not an error.
func newPage[T any](items []T, req PageRequest, total int) (Page[T], error) {
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	if pages > 0 && req.Page >= pages {
		return Page[T]{}, &PageOutOfBoundsError{Page: req.Page, TotalPages: pages}
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Content: items, Page: req.Page, Size: req.Size, TotalElements: total, TotalPages: pages}, nil
}
