package models

// PageQuery carries the pagination window parsed from a list request.
// Limit 0 means "no pagination": the endpoint returns the full collection as
// a bare array, preserved for backward compatibility with older clients.
type PageQuery struct {
	Limit int
	Page  int
}

// NewPageQuery clamps limit to [1,100] when supplied and page to >= 1.
func NewPageQuery(limit, page int) PageQuery {
	if limit > 0 {
		if limit > 100 {
			limit = 100
		}
		if page < 1 {
			page = 1
		}
		return PageQuery{Limit: limit, Page: page}
	}
	return PageQuery{}
}

// Paginated reports whether a limit was supplied.
func (p PageQuery) Paginated() bool {
	return p.Limit > 0
}

// Offset returns the number of rows to skip.
func (p PageQuery) Offset() int {
	if !p.Paginated() {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
