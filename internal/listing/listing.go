// Package listing filters and pages in-memory result sets.
package listing

// Page is one window of a list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Filter keeps items matching keep, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages is ceil(total/size); zero when there is nothing to show.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset is the zero-based index of the first item on page.
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// Paginate returns the requested page. Out-of-range pages are empty, not
// an error; page numbers below one are treated as one.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = len(items)
	}
	out := Page[T]{
		Items:      []T{},
		Total:      len(items),
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(items), size),
	}
	start := Offset(page, size)
	if start >= len(items) {
		return out
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out.Items = items[start:end]
	return out
}
