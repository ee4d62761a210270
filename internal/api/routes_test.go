package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postboard-web/internal/articles"
	"postboard-web/internal/auth"
)

type stubSource struct {
	items []articles.Article
	err   error
}

func (s *stubSource) List(ctx context.Context) ([]articles.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubSource) Get(ctx context.Context, id int) (*articles.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, articles.ErrNotFound
}

func newAPI(t *testing.T, src articles.Source) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := auth.NewService("demo@qubicball.com", "demo123", "", "test-secret", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router, Services{Auth: svc, Articles: src, Logger: zap.NewNop()})
	return router, svc
}

func call(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func issue(t *testing.T, svc *auth.Service) string {
	t.Helper()
	resp, err := svc.GenerateToken(&auth.User{Email: "demo@qubicball.com"})
	require.NoError(t, err)
	return resp.Token
}

func posts(n int) []articles.Article {
	out := make([]articles.Article, n)
	for i := range out {
		out[i] = articles.Article{ID: i + 1, AuthorID: 1, Title: fmt.Sprintf("Title %d", i+1), Body: "body"}
	}
	return out
}

func TestLogin(t *testing.T) {
	router, svc := newAPI(t, &stubSource{})

	rec := call(router, http.MethodPost, "/api/v1/login", `{"email":"demo@qubicball.com","password":"demo123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp auth.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "demo@qubicball.com", resp.User.Email)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "demo@qubicball.com", claims.Email)
}

func TestLoginRejected(t *testing.T) {
	router, _ := newAPI(t, &stubSource{})

	rec := call(router, http.MethodPost, "/api/v1/login", `{"email":"demo@qubicball.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, rec.Body.String())

	rec = call(router, http.MethodPost, "/api/v1/login", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticlesRequireToken(t *testing.T) {
	router, _ := newAPI(t, &stubSource{items: posts(3)})

	rec := call(router, http.MethodGet, "/api/v1/articles", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(router, http.MethodGet, "/api/v1/articles", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListArticles(t *testing.T) {
	router, svc := newAPI(t, &stubSource{items: posts(25)})
	token := issue(t, svc)

	rec := call(router, http.MethodGet, "/api/v1/articles?page=3", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 25, resp.Total)
	require.Len(t, resp.Items, 5)
	assert.Equal(t, 21, resp.Items[0].ID)

	rec = call(router, http.MethodGet, "/api/v1/articles?q=title%2012&page=9", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "title 12", resp.Query)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 12, resp.Items[0].ID)
}

func TestGetArticle(t *testing.T) {
	router, svc := newAPI(t, &stubSource{items: posts(3)})
	token := issue(t, svc)

	rec := call(router, http.MethodGet, "/api/v1/articles/2", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var post articles.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "Title 2", post.Title)

	rec = call(router, http.MethodGet, "/api/v1/articles/99", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(router, http.MethodGet, "/api/v1/articles/zero", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpstreamFailure(t *testing.T) {
	router, svc := newAPI(t, &stubSource{err: fmt.Errorf("failed to fetch posts: %w", articles.ErrFetchFailed)})
	token := issue(t, svc)

	rec := call(router, http.MethodGet, "/api/v1/articles", "", token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch posts")

	router, svc = newAPI(t, &stubSource{err: fmt.Errorf("wrapped: %w", context.DeadlineExceeded)})
	rec = call(router, http.MethodGet, "/api/v1/articles/1", "", issue(t, svc))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newAPI(t, &stubSource{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/articles", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListUpstreamNotFoundIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	router, svc := newAPI(t, articles.NewClient(upstream.URL, upstream.Client(), nil))
	token := issue(t, svc)

	rec := call(router, http.MethodGet, "/api/v1/articles", "", token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch posts"}`, rec.Body.String())

	rec = call(router, http.MethodGet, "/api/v1/articles/7", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
