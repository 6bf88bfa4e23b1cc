package models

// Page is a paginated result in the shape the web client expects.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int   `json:"size"`
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
}

// NewPage assembles a page from a record slice and the total row count.
func NewPage[T any](records []T, total int64, current, size int) *Page[T] {
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	if records == nil {
		records = []T{}
	}
	return &Page[T]{
		Records: records,
		Total:   total,
		Size:    size,
		Current: current,
		Pages:   pages,
	}
}
