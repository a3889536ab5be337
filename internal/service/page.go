package service

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = 1_000_000
)

// Page selects a window of a listing, counting from page 1
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and page_size, falling back to defaults for missing or invalid values
func ParsePage(page, size string) Page {
	p := Page{Number: 1, Size: DefaultPageSize}
	if v, err := strconv.Atoi(page); err == nil && v > 0 {
		p.Number = min(v, MaxPageNumber) // Keeps the offset from overflowing
	}
	if v, err := strconv.Atoi(size); err == nil && v > 0 && v <= MaxPageSize {
		p.Size = v
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns how many pages hold total items
func (p Page) TotalPages(total int64) int {
	return (int(total) + p.Size - 1) / p.Size
}
