package listing

// WindowSize es la cantidad de botones numerados visibles.
const WindowSize = 5

// Pager describe los controles de paginación; no guarda estado propio.
type Pager struct {
	Current int
	Total   int
	Pages   []int

	ShowFirst        bool
	LeadingEllipsis  bool
	ShowLast         bool
	TrailingEllipsis bool

	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

// Window centra hasta WindowSize páginas en current, ajustadas a [1, total].
// Los atajos a la primera y última página aparecen cuando la ventana no toca
// ese extremo, y los puntos suspensivos cuando además queda un hueco.
func Window(current, total int) Pager {
	if total < 1 {
		return Pager{Current: 1, Total: 0}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - WindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + WindowSize - 1
	if end > total {
		end = total
	}
	if end-start < WindowSize-1 {
		start = end - WindowSize + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Pager{
		Current:          current,
		Total:            total,
		Pages:            pages,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 2,
		ShowLast:         end < total,
		TrailingEllipsis: end < total-1,
		HasPrev:          current > 1,
		HasNext:          current < total,
		Prev:             current - 1,
		Next:             current + 1,
	}
}
