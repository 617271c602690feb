package models

// Page is one server-side page of a resource listing.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TotalPages is ceil(total/limit); zero for a non-positive limit.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPage builds a page with derived fields computed from total and limit.
func NewPage[T any](items []T, total, page, limit int) Page[T] {
	p := Page[T]{Items: items, Total: total, Page: page, Limit: limit}
	p.Normalize()
	return p
}

// Normalize recomputes the derived fields so they agree with Total, Page
// and Limit, and truncates Items to Limit. Server responses go through it
// so the controller never trusts inconsistent counters.
func (p *Page[T]) Normalize() {
	if p.Total < 0 {
		p.Total = 0
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit > 0 && len(p.Items) > p.Limit {
		p.Items = p.Items[:p.Limit]
	}
	p.TotalPages = TotalPages(p.Total, p.Limit)
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}
