package web

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"postboard-web/internal/articles"
	"postboard-web/internal/listing"
	"postboard-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout son los datos comunes a todas las páginas completas.
type Layout struct {
	Title         string
	Theme         string
	Authenticated bool
	User          *session.User
	Path          string
}

type landingPage struct {
	Layout
}

type loginPage struct {
	Layout
	Email string
	Error string
}

type dashboardPage struct {
	Layout
	Query       string
	FragmentURL string
	Skeletons   []int
}

// articleList es el fragmento con tarjetas, paginación y banners.
type articleList struct {
	Query     string
	Error     string
	Articles  []articles.Article
	Pager     listing.Pager
	ShowPager bool
	Total     int
	First     int
	Last      int
}

type articleListPage struct {
	Layout
	List articleList
}

type detailPage struct {
	Layout
	Article *articles.Article
	Error   string
}

type messagePage struct {
	Layout
	Message string
}

var templateFuncs = template.FuncMap{
	"pageURL": pageURL,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
	"postURL": func(id int) string {
		return "/dashboard/posts/" + strconv.Itoa(id)
	},
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// pageURL construye el enlace del dashboard conservando la búsqueda.
func pageURL(query string, page int) string {
	return listURL("/dashboard", query, page)
}

func fragmentURL(query string, page int) string {
	return listURL("/dashboard/articles", query, page)
}

func listURL(path, query string, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func (h *Handlers) layout(c *gin.Context, title string) Layout {
	m := Session(c)
	l := Layout{
		Title: title,
		Theme: themeFrom(c),
		Path:  c.Request.URL.Path,
	}
	if m != nil {
		l.Authenticated = m.Authenticated()
		l.User = m.User()
	}
	return l
}
