package utils

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageWindow returns the half-open index range [start, end) of a 1-based page.
// The range is not clamped to total; a page past the end yields start >= total.
func PageWindow(page, pageSize int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * pageSize
	end = page * pageSize
	return start, end
}
