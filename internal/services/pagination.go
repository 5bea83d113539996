package services

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPageNumber   = 1_000_000
)

type Pagination struct {
	PageSize   int
	PageNumber int
}

// Normalize clamps out-of-range values to the defaults.
func (p Pagination) Normalize() Pagination {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	return p
}

func (p Pagination) Skip() int {
	return (p.PageNumber - 1) * p.PageSize
}

func (p Pagination) TotalPages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

type PageInfo struct {
	TotalCount int `json:"total_count"`
	PageSize   int `json:"page_size"`
	PageNumber int `json:"page_number"`
	TotalPages int `json:"total_pages"`
	Skip       int `json:"skip"`
}

func (p Pagination) Info(total int) PageInfo {
	return PageInfo{
		TotalCount: total,
		PageSize:   p.PageSize,
		PageNumber: p.PageNumber,
		TotalPages: p.TotalPages(total),
		Skip:       p.Skip(),
	}
}
