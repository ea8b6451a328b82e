package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MiguelMialdeaDev/ShopFlow/internal/model"
)

const defaultBaseURL = "https://fakestoreapi.com"

var (
	// ErrConnection 連線層錯誤 (DNS, timeout, connection refused...)
	ErrConnection = errors.New("connection error")
)

// HTTPError 伺服器回應非2xx
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected http status: %d", e.StatusCode)
}

// IStoreAPI 遠端catalog API客戶端介面
type IStoreAPI interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int) (model.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ IStoreAPI = (*Client)(nil)

func (c *Client) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProductByID(ctx context.Context, id int) (model.Product, error) {
	var product model.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// getJSON 發送GET請求並解析回應
// 錯誤分類:
//   - ErrConnection: 傳輸層錯誤
//   - *HTTPError: 非2xx回應
//   - 其他: 解析失敗等非預期錯誤
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %v", err)
	}
	return nil
}
