package models

// Page описывает страницу выдачи.
type Page struct {
	Number     int `json:"current_page"`
	Size       int `json:"items_per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage строит страницу, прижимая number к диапазону [1, TotalPages].
// Пустая выдача всё равно состоит из одной страницы.
func NewPage(number, size, total int) Page {
	if size < 1 {
		size = 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return Page{Number: number, Size: size, TotalItems: total, TotalPages: pages}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) Next() int {
	return p.Number + 1
}

func (p Page) Previous() int {
	return p.Number - 1
}
