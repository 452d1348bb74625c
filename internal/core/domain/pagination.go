package domain

import "strconv"

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 10

// Pagination describes one window of an ordered collection.
type Pagination struct {
	Number     int   // 1-based page number actually served
	Size       int   // items per page
	Total      int64 // items in the whole collection
	TotalPages int
}

// Paginate resolves a requested page against a collection of total items.
//
// raw is the unparsed "page" query value. Empty or non-numeric input selects
// the first page; a number outside 1..TotalPages selects the last page.
// An empty collection still has one (empty) page.
func Paginate(total int64, size int, raw string) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	number, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		number = 1
	case number < 1 || number > pages:
		number = pages
	}

	return Pagination{Number: number, Size: size, Total: total, TotalPages: pages}
}

// Offset is the number of items preceding this page.
func (p Pagination) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Pagination) HasNext() bool     { return p.Number < p.TotalPages }
func (p Pagination) HasPrevious() bool { return p.Number > 1 }
func (p Pagination) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p Pagination) NextNumber() int     { return p.Number + 1 }
func (p Pagination) PreviousNumber() int { return p.Number - 1 }

// Pages lists every page number, for rendering page links.
func (p Pagination) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// PostPage is a window of posts plus its pagination metadata.
type PostPage struct {
	Pagination
	Posts []*Post
}

// Len returns the number of posts on this page.
func (p *PostPage) Len() int { return len(p.Posts) }
