package services

// PagePolicy is the shared page-size policy for list endpoints.
type PagePolicy struct {
	DefaultSize int
	MaxSize     int
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Normalize applies the policy: page at least 1, size defaulted when absent
// and clamped into [1, MaxSize]. Zero values mean "not supplied".
func (p PagePolicy) Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = p.DefaultSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > p.MaxSize {
		pageSize = p.MaxSize
	}
	return page, pageSize
}

// NewPagination computes the page envelope for a normalized page/size pair.
// TotalPages is never below 1, even for an empty result.
func NewPagination(page, pageSize, totalItems int) Pagination {
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Offset returns the SQL offset for a normalized page/size pair.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
