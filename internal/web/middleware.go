package web

import (
	"compress/gzip"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"postboard-web/internal/session"
)

const sessionContextKey = "session"

// StorageFactory crea el Storage de sesión ligado a una petición.
type StorageFactory func(c *gin.Context) session.Storage

func CookieSessions(store sessions.Store) StorageFactory {
	return func(c *gin.Context) session.Storage {
		return session.NewCookieStorage(store, c.Request, c.Writer)
	}
}

func RedisSessions(client redis.UniversalClient, prefix string, ttl time.Duration, secure bool) StorageFactory {
	return func(c *gin.Context) session.Storage {
		id := session.ClientID(c.Request, c.Writer, ttl, secure)
		return session.NewRedisStorage(client, prefix, id, ttl)
	}
}

// sessionMiddleware restaura la sesión una vez por petición y la deja en el contexto.
func sessionMiddleware(factory StorageFactory, verifier session.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := session.Restore(c.Request.Context(), factory(c), verifier, logger)
		if err != nil {
			logger.Error("❌ Error restoring session", zap.Error(err))
			c.String(http.StatusServiceUnavailable, "Session store unavailable")
			c.Abort()
			return
		}
		c.Set(sessionContextKey, m)
		c.Next()
	}
}

// Session devuelve el gestor de sesión de la petición actual.
func Session(c *gin.Context) *session.Manager {
	if v, ok := c.Get(sessionContextKey); ok {
		if m, ok := v.(*session.Manager); ok {
			return m
		}
	}
	return nil
}

func isFetch(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "fetch"
}

// RequireSession deja pasar sólo a visitantes autenticados. El resto recibe el
// aviso de redirección y va a /login en el acto.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m := Session(c); m != nil && m.Authenticated() {
			c.Next()
			return
		}

		if isFetch(c) {
			c.Header("X-Redirect", "/login")
			c.String(http.StatusUnauthorized, "Redirecting to login...")
			c.Abort()
			return
		}

		c.Header("Location", "/login")
		c.HTML(http.StatusFound, "redirect.html", messagePage{
			Layout:  Layout{Title: "Redirecting", Theme: themeFrom(c)},
			Message: "Redirecting to login...",
		})
		c.Abort()
	}
}

func securityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Headers de seguridad
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// Las páginas dependen de la sesión: nada de caché compartida
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Next()
	}
}

// gzipResponseWriter comprime de forma perezosa: el gzip arranca con el primer
// byte de cuerpo, así que 204, 304 y respuestas vacías salen sin Content-Encoding.
type gzipResponseWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) start() {
	h := w.Header()
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	w.writer = gzip.NewWriter(w.ResponseWriter)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.writer == nil {
		if len(b) == 0 {
			return 0, nil
		}
		if !bodyAllowed(w.Status()) {
			return w.ResponseWriter.Write(b)
		}
		w.start()
	}
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipResponseWriter) close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

func gzipMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		c.Header("Vary", "Accept-Encoding")
		gw := &gzipResponseWriter{ResponseWriter: c.Writer}
		c.Writer = gw
		defer gw.close()
		c.Next()
	}
}
