package models

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type Pagination struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func (p Pagination) Limit() int {
	return p.Normalize().PerPage
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}
