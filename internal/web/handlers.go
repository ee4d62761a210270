package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard-web/internal/articles"
	"postboard-web/internal/listing"
)

const (
	themeMaxAge = 365 * 24 * time.Hour

	msgInvalidCredentials = "Invalid credentials. Please check your email and password."
	msgGeneric            = "An error occurred"
	msgFetchPosts         = "Failed to fetch posts"
	msgFetchPost          = "Failed to fetch post"
)

type Handlers struct {
	source        articles.Source
	logger        *zap.Logger
	secureCookies bool
}

func NewHandlers(source articles.Source, logger *zap.Logger, secureCookies bool) *Handlers {
	return &Handlers{source: source, logger: logger, secureCookies: secureCookies}
}

// fetchStatus traduce un error de la fuente al código HTTP de la respuesta.
func fetchStatus(err error) int {
	switch {
	case errors.Is(err, articles.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// cancelled indica que el visitante abandonó la vista: no hay nada que pintar.
func (h *Handlers) cancelled(c *gin.Context, err error) bool {
	if errors.Is(err, context.Canceled) || c.Request.Context().Err() != nil {
		h.logger.Debug("⏹️ View closed before fetch finished", zap.String("path", c.Request.URL.Path))
		c.Abort()
		return true
	}
	return false
}

func (h *Handlers) landing(c *gin.Context) {
	if m := Session(c); m != nil && m.Authenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "landing.html", landingPage{Layout: h.layout(c, "Welcome")})
}

func (h *Handlers) showLogin(c *gin.Context) {
	if m := Session(c); m != nil && m.Authenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", loginPage{Layout: h.layout(c, "Sign in")})
}

func (h *Handlers) loginSubmit(c *gin.Context) {
	m := Session(c)
	email := c.PostForm("email")
	password := c.PostForm("password")

	ok, err := m.Login(c.Request.Context(), email, password)
	if err != nil {
		h.logger.Error("❌ Error persisting session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", loginPage{
			Layout: h.layout(c, "Sign in"),
			Email:  email,
			Error:  msgGeneric,
		})
		return
	}
	if !ok {
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{
			Layout: h.layout(c, "Sign in"),
			Email:  email,
			Error:  msgInvalidCredentials,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handlers) logout(c *gin.Context) {
	if m := Session(c); m != nil {
		if err := m.Logout(c.Request.Context()); err != nil {
			h.logger.Warn("⚠️ Session cleared in memory but not in storage", zap.Error(err))
		}
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// dashboard pinta el esqueleto; los artículos llegan por el fragmento.
func (h *Handlers) dashboard(c *gin.Context) {
	query := c.Query("q")
	page, _ := strconv.Atoi(c.Query("page"))

	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{
		Layout:      h.layout(c, "Dashboard"),
		Query:       query,
		FragmentURL: fragmentURL(query, page),
		Skeletons:   make([]int, listing.PageSize),
	})
}

// articlesFragment hace la única petición de la vista y deriva la página visible.
// Si el visitante se va antes de que termine, el contexto se cancela y no se
// pinta nada.
func (h *Handlers) articlesFragment(c *gin.Context) {
	query := c.Query("q")
	page, _ := strconv.Atoi(c.Query("page"))

	list := articleList{Query: query}
	status := http.StatusOK

	items, err := h.source.List(c.Request.Context())
	if err != nil {
		if h.cancelled(c, err) {
			return
		}
		h.logger.Error("❌ Error fetching articles", zap.Error(err))
		list.Error = msgFetchPosts
		status = fetchStatus(err)
	} else {
		view := listing.New(items)
		view.SetQuery(query)
		view.SetPage(page)

		list.Articles = view.Visible()
		list.Total = view.Total()
		list.First, list.Last = view.Range()
		list.Pager = listing.Window(view.Page(), view.TotalPages())
		list.ShowPager = view.TotalPages() > 1
	}

	if isFetch(c) {
		c.HTML(status, "articles.html", list)
		return
	}
	c.HTML(status, "articles_page.html", articleListPage{Layout: h.layout(c, "Dashboard"), List: list})
}

func (h *Handlers) articleDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		h.notFound(c)
		return
	}

	page := detailPage{Layout: h.layout(c, "Article")}
	status := http.StatusOK

	post, err := h.source.Get(c.Request.Context(), id)
	if err != nil {
		if h.cancelled(c, err) {
			return
		}
		h.logger.Warn("⚠️ Error fetching article", zap.Int("id", id), zap.Error(err))
		page.Error = msgFetchPost
		status = fetchStatus(err)
	} else {
		page.Article = post
		page.Title = post.Title
	}

	c.HTML(status, "detail.html", page)
}

func (h *Handlers) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", messagePage{
		Layout:  h.layout(c, "Not found"),
		Message: "The page you are looking for does not exist.",
	})
}
