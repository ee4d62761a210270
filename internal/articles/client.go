package articles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client lee los posts de una API REST con el formato de JSONPlaceholder.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

func (c *Client) List(ctx context.Context) ([]Article, error) {
	var posts []Article
	if err := c.getJSON(ctx, c.baseURL+"/posts", &posts); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	c.logger.Debug("✅ Posts fetched", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *Client) Get(ctx context.Context, id int) (*Article, error) {
	var post Article
	if err := c.getJSON(ctx, c.baseURL+"/posts/"+strconv.Itoa(id), &post); err != nil {
		// Sólo en el detalle un 404 significa que el artículo no existe
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, fmt.Errorf("failed to fetch post: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}
	// JSONPlaceholder responde {} con 200 para algunos ids inexistentes
	if post.ID == 0 {
		return nil, fmt.Errorf("failed to fetch post: %w", ErrNotFound)
	}
	return &post, nil
}

// statusError es una respuesta no 2xx; cuenta como ErrFetchFailed.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: unexpected status %d", ErrFetchFailed, e.code)
}

func (e *statusError) Unwrap() error {
	return ErrFetchFailed
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("🌐 Fetching", zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return nil
}
