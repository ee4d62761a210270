package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie = "theme"
	themeDark   = "dark"
	themeLight  = "light"
)

// themeFrom devuelve "dark", "light" o "" cuando el visitante no ha elegido y
// manda la preferencia del sistema.
func themeFrom(c *gin.Context) string {
	v, err := c.Cookie(themeCookie)
	if err != nil {
		return ""
	}
	switch v {
	case themeDark, themeLight:
		return v
	}
	return ""
}

func nextTheme(current string) string {
	if current == themeDark {
		return themeLight
	}
	return themeDark
}

// safeReturn sólo acepta rutas locales para no abrir una redirección a otro sitio.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// toggleTheme invierte el tema efectivo. El formulario manda el tema que el
// navegador está mostrando, que puede venir de prefers-color-scheme.
func (h *Handlers) toggleTheme(c *gin.Context) {
	current := c.PostForm("current")
	if current != themeDark && current != themeLight {
		current = themeFrom(c)
	}
	next := nextTheme(current)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, next, int(themeMaxAge.Seconds()), "/", "", h.secureCookies, false)

	if isFetch(c) {
		c.JSON(http.StatusOK, gin.H{"theme": next})
		return
	}
	c.Redirect(http.StatusSeeOther, safeReturn(c.PostForm("return")))
}
