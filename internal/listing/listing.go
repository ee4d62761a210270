// Package listing deriva la página visible de una colección de artículos a
// partir de una búsqueda de texto y un número de página.
package listing

import (
	"strings"

	"postboard-web/internal/articles"
)

const PageSize = 10

// Filter devuelve los artículos cuyo título o cuerpo contiene query sin
// distinguir mayúsculas. Una búsqueda vacía (o sólo espacios) devuelve items tal cual.
func Filter(items []articles.Article, query string) []articles.Article {
	if strings.TrimSpace(query) == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]articles.Article, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), needle) ||
			strings.Contains(strings.ToLower(it.Body), needle) {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages es ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// View es el estado derivado de una vista: nunca se persiste.
type View struct {
	source   []articles.Article
	filtered []articles.Article
	query    string
	page     int
}

func New(items []articles.Article) *View {
	return &View{source: items, filtered: items, page: 1}
}

// SetQuery recalcula el filtro y vuelve a la página 1.
func (v *View) SetQuery(query string) {
	v.query = query
	v.filtered = Filter(v.source, query)
	v.page = 1
}

// SetPage limita p a [1, TotalPages]; con cero resultados la página es 1.
func (v *View) SetPage(p int) {
	total := v.TotalPages()
	if p > total {
		p = total
	}
	if p < 1 {
		p = 1
	}
	v.page = p
}

func (v *View) Query() string                { return v.query }
func (v *View) Page() int                    { return v.page }
func (v *View) Filtered() []articles.Article { return v.filtered }
func (v *View) Total() int                   { return len(v.filtered) }
func (v *View) TotalPages() int              { return TotalPages(len(v.filtered)) }

// Visible devuelve filtered[(page-1)*PageSize : min(page*PageSize, len)].
func (v *View) Visible() []articles.Article {
	start, end := v.bounds()
	return v.filtered[start:end]
}

// Range devuelve las posiciones (desde 1) del primer y último artículo visibles,
// o 0, 0 si no hay ninguno.
func (v *View) Range() (first, last int) {
	start, end := v.bounds()
	if start == end {
		return 0, 0
	}
	return start + 1, end
}

func (v *View) bounds() (int, int) {
	start := (v.page - 1) * PageSize
	end := v.page * PageSize
	if start > len(v.filtered) {
		start = len(v.filtered)
	}
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	return start, end
}
