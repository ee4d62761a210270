package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard-web/internal/articles"
	"postboard-web/internal/logging"
	"postboard-web/internal/session"
)

type Services struct {
	Articles      articles.Source
	Sessions      StorageFactory
	Verifier      session.Verifier
	Logger        *zap.Logger
	SecureCookies bool
}

// NewRouter monta el motor gin con el middleware común y las rutas HTML. La
// API JSON se añade aparte sobre el mismo motor.
func NewRouter(s Services) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(logging.Middleware(s.Logger))
	router.Use(gin.Recovery())
	router.Use(securityMiddleware())
	router.Use(gzipMiddleware())

	SetupRoutes(router, s)
	return router, nil
}

func SetupRoutes(router *gin.Engine, s Services) {
	h := NewHandlers(s.Articles, s.Logger, s.SecureCookies)
	withSession := sessionMiddleware(s.Sessions, s.Verifier, s.Logger)

	// Rutas públicas
	public := router.Group("/", withSession)
	public.GET("/", h.landing)
	public.GET("/login", h.showLogin)
	public.POST("/login", h.loginSubmit)
	public.POST("/theme", h.toggleTheme)
	public.GET("/logout", h.logout)
	public.POST("/logout", h.logout)

	// Rutas protegidas
	protected := router.Group("/", withSession, RequireSession())
	protected.GET("/dashboard", h.dashboard)
	protected.GET("/dashboard/articles", h.articlesFragment)
	protected.GET("/dashboard/posts/:id", h.articleDetail)

	router.NoRoute(withSession, h.notFound)
}
