package http

import (
	"net/http"
	"strconv"
)

const defaultPageSize = 20

// parsePaging reads the page and page_size query parameters, applying the
// defaults used across every list endpoint.
func parsePaging(r *http.Request) (int, int) {
	page := 1
	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			page = v
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			pageSize = v
		}
	}
	return page, pageSize
}

type pagination struct {
	Page         int  `json:"page"`
	NextPage     *int `json:"next_page,omitempty"`
	PreviousPage *int `json:"previous_page,omitempty"`
}

func toPagination(page int, hasMore bool) pagination {
	p := pagination{Page: page}
	if hasMore {
		next := page + 1
		p.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		p.PreviousPage = &prev
	}
	return p
}
