package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url                 string
		wantPage, wantLimit int
	}{
		{"/products/paginated", 1, 20},
		{"/products/paginated?page=3", 3, 20},
		{"/products/paginated?page=2&limit=5", 2, 5},
		{"/products/paginated?page=0&limit=-1", 1, 20},
		{"/products/paginated?page=abc&limit=xyz", 1, 20},
	}
	for _, c := range cases {
		r := httptest.NewRequest("GET", c.url, nil)
		page, limit := ParsePagination(r, 20)
		if page != c.wantPage || limit != c.wantLimit {
			t.Errorf("%s: got page=%d limit=%d, want page=%d limit=%d", c.url, page, limit, c.wantPage, c.wantLimit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}
