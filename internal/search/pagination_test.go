package search

import (
	"net/url"
	"strings"
	"testing"
)

func TestPaginationMiddlePage(t *testing.T) {
	p := NewPagination(8, 2, 4)
	if p.TotalPages != 4 || p.CurrentPage != 3 {
		t.Fatalf("pagination %+v", p)
	}
	if p.First != 1 || p.Prev != 2 || p.Next != 4 || p.Last != 4 {
		t.Fatalf("links %+v", p)
	}
}

func TestPaginationFirstPage(t *testing.T) {
	p := NewPagination(8, 2, 0)
	if p.CurrentPage != 1 {
		t.Fatalf("pagination %+v", p)
	}
	if p.First != 0 || p.Prev != 0 {
		t.Fatalf("first page should have no first/prev links: %+v", p)
	}
	if p.Next != 2 || p.Last != 4 {
		t.Fatalf("links %+v", p)
	}
}

func TestPaginationLastPage(t *testing.T) {
	p := NewPagination(8, 2, 6)
	if p.CurrentPage != 4 {
		t.Fatalf("pagination %+v", p)
	}
	if p.Next != 0 || p.Last != 0 {
		t.Fatalf("last page should have no next/last links: %+v", p)
	}
	if p.First != 1 || p.Prev != 3 {
		t.Fatalf("links %+v", p)
	}
}

func TestPaginationSinglePage(t *testing.T) {
	p := NewPagination(2, 100, 0)
	if p.TotalPages != 1 {
		t.Fatalf("pagination %+v", p)
	}
	if p.First != 0 || p.Prev != 0 || p.Next != 0 || p.Last != 0 {
		t.Fatalf("single page should have no links: %+v", p)
	}
}

func TestPaginationEmpty(t *testing.T) {
	p := NewPagination(0, 100, 0)
	if p.TotalPages != 0 || p.CurrentPage != 1 {
		t.Fatalf("pagination %+v", p)
	}
}

func TestLinkHeader(t *testing.T) {
	base, _ := url.Parse("http://api.test/api/v1/resources?filter=name~'a'&limit=2&offset=4")
	p := NewPagination(8, 2, 4)
	header := p.LinkHeader(base)

	for _, rel := range []string{`rel="first"`, `rel="prev"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(header, rel) {
			t.Fatalf("header %q missing %s", header, rel)
		}
	}
	if !strings.Contains(header, "offset=0") {
		t.Fatalf("header %q missing first offset", header)
	}
	if !strings.Contains(header, "offset=6") {
		t.Fatalf("header %q missing last offset", header)
	}
	// The filter survives the rebuild.
	if !strings.Contains(header, "filter=") {
		t.Fatalf("header %q dropped the filter", header)
	}
}

func TestLinkHeaderNoLinks(t *testing.T) {
	base, _ := url.Parse("http://api.test/api/v1/resources")
	p := NewPagination(1, 100, 0)
	if header := p.LinkHeader(base); header != "" {
		t.Fatalf("header %q", header)
	}
}
