package search

import (
	"fmt"
	"net/url"
	"strings"
)

// Pagination describes the page window of a result set. Page numbers are
// 1-based; a zero page-number field means the corresponding link is not
// applicable.
type Pagination struct {
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	First       int   `json:"first,omitempty"`
	Prev        int   `json:"prev,omitempty"`
	Next        int   `json:"next,omitempty"`
	Last        int   `json:"last,omitempty"`
}

// NewPagination computes the navigable page numbers for a window. The
// first and last links appear only when there is more than one page and
// the current page is not already at that edge.
func NewPagination(total int64, limit, offset int) Pagination {
	p := Pagination{Total: total, Limit: limit, Offset: offset}
	if limit <= 0 {
		return p
	}
	p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	p.CurrentPage = offset/limit + 1

	if p.CurrentPage > 1 {
		p.Prev = p.CurrentPage - 1
	}
	if p.CurrentPage < p.TotalPages {
		p.Next = p.CurrentPage + 1
	}
	if p.TotalPages > 1 && p.CurrentPage > 1 {
		p.First = 1
	}
	if p.TotalPages > 1 && p.CurrentPage < p.TotalPages {
		p.Last = p.TotalPages
	}
	return p
}

// LinkHeader renders the RFC 5988 Link header for the window, rebuilding
// each related URL from the request's own query string with the offset
// swapped out.
func (p Pagination) LinkHeader(base *url.URL) string {
	if base == nil {
		return ""
	}
	var links []string
	add := func(rel string, page int) {
		if page == 0 {
			return
		}
		u := *base
		q := u.Query()
		q.Set("limit", fmt.Sprintf("%d", p.Limit))
		q.Set("offset", fmt.Sprintf("%d", page*p.Limit-p.Limit))
		u.RawQuery = q.Encode()
		links = append(links, fmt.Sprintf("<%s>; rel=%q", u.String(), rel))
	}
	add("first", p.First)
	add("prev", p.Prev)
	add("next", p.Next)
	add("last", p.Last)
	return strings.Join(links, ", ")
}
