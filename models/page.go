package models

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize clamps the request to page >= 1 and 1 <= per page <= MaxPerPage.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageRequest) Skip() int64 {
	return int64((p.Page - 1) * p.PerPage)
}

// Page is a slice of results plus the paginator fields clients already consume.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}
	last := int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	if last < 1 {
		last = 1
	}
	return Page[T]{
		Data:        items,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		Total:       total,
		LastPage:    last,
	}
}
