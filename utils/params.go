package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination reads page/limit query params, falling back to page 1 and
// the provided default page size.
func ParsePagination(r *http.Request, defaultLimit int) (page, limit int) {
	q := r.URL.Query()

	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// TotalPages computes the page count for a collection of total items split
// into pages of limit items.
func TotalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
