package types

import (
	ierr "github.com/vidinfra/commtrack/internal/errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

// PageFilter selects one page of a listing. Pages are 1-based.
type PageFilter struct {
	PageNumber int `json:"page" form:"page" validate:"min=1"`
	PageSize   int `json:"page_size" form:"page_size" validate:"min=1,max=1000"`
}

// NewPageFilter returns a filter for the given page, applying defaults for
// zero values.
func NewPageFilter(pageNumber, pageSize int) *PageFilter {
	f := &PageFilter{PageNumber: pageNumber, PageSize: pageSize}
	if f.PageNumber == 0 {
		f.PageNumber = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

func (f *PageFilter) Validate() error {
	if f == nil {
		return ierr.NewError("page filter is required").
			WithHint("Page number and page size are required").
			Mark(ierr.ErrValidation)
	}
	if f.PageNumber < 1 {
		return ierr.NewErrorf("invalid page number %d", f.PageNumber).
			WithHint("Page number must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return ierr.NewErrorf("invalid page size %d", f.PageSize).
			WithHintf("Page size must be between 1 and %d", MaxPageSize).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetLimit returns the SQL limit of the page
func (f *PageFilter) GetLimit() int {
	return f.PageSize
}

// GetOffset returns the SQL offset of the page
func (f *PageFilter) GetOffset() int {
	return (f.PageNumber - 1) * f.PageSize
}

// PaginationResponse represents standardized pagination metadata
type PaginationResponse struct {
	Total      int `json:"total"`
	PageNumber int `json:"page"`
	PageSize   int `json:"page_size"`
}

// ListResponse represents a paginated response with items
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

// NewListResponse creates a new list response with pagination
func NewListResponse[T any](items []T, total int, filter *PageFilter) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		Pagination: PaginationResponse{
			Total:      total,
			PageNumber: filter.PageNumber,
			PageSize:   filter.PageSize,
		},
	}
}
