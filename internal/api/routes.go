package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard-web/internal/articles"
	"postboard-web/internal/auth"
	"postboard-web/internal/listing"
)

const claimsKey = "claims"

type Services struct {
	Auth     *auth.Service
	Articles articles.Source
	Logger   *zap.Logger
	Origins  []string
}

type listResponse struct {
	Items      []articles.Article `json:"items"`
	Query      string             `json:"query"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Total      int                `json:"total"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SetupRoutes registra la API JSON bajo /api/v1 para clientes que no usan cookies.
func SetupRoutes(router *gin.Engine, s Services) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.Origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.Origins
	}

	v1 := router.Group("/api/v1", cors.New(corsConfig))

	h := &handlers{auth: s.Auth, source: s.Articles, logger: s.Logger}
	v1.POST("/login", h.login)
	// Preflight: cors responde antes de llegar al handler.
	v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	protected := v1.Group("", h.requireToken)
	protected.GET("/articles", h.list)
	protected.GET("/articles/:id", h.get)
}

type handlers struct {
	auth   *auth.Service
	source articles.Source
	logger *zap.Logger
}

func (h *handlers) login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request"})
		return
	}

	user, err := h.auth.Authenticate(&req)
	if err != nil {
		h.logger.Info("❌ API login failed", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid credentials"})
		return
	}

	resp, err := h.auth.GenerateToken(user)
	if err != nil {
		h.logger.Error("❌ Error generating token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "An error occurred"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Missing bearer token"})
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Invalid token"})
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

func (h *handlers) list(c *gin.Context) {
	items, err := h.source.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch posts")
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	view := listing.New(items)
	view.SetQuery(c.Query("q"))
	view.SetPage(page)

	c.JSON(http.StatusOK, listResponse{
		Items:      view.Visible(),
		Query:      view.Query(),
		Page:       view.Page(),
		TotalPages: view.TotalPages(),
		Total:      view.Total(),
	})
}

func (h *handlers) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, errorResponse{Message: "Article not found"})
		return
	}

	post, err := h.source.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *handlers) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, context.Canceled):
		c.Abort()
	case errors.Is(err, articles.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "Article not found"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorResponse{Message: message})
	default:
		h.logger.Error("❌ Upstream error", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Message: message})
	}
}
