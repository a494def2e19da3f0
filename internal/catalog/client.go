package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://fakestoreapi.com"

// Client fetches the catalog from the remote store API. Any transport,
// status or decode failure degrades to an empty result: the caller only ever
// sees "zero products", the failure itself goes to the log.
type Client struct {
	BaseURL string
	Client  *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

func (c *Client) FetchProducts(ctx context.Context) []Product {
	var products []Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		c.warn("fetch products failed", err)
		return []Product{}
	}
	return products
}

func (c *Client) FetchCategories(ctx context.Context) []string {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		c.warn("fetch categories failed", err)
		return []string{}
	}
	return categories
}

// Load issues both fetches concurrently and joins them. Each fetch fails
// independently; a failed one contributes an empty slice without blocking or
// cancelling the other.
func (c *Client) Load(ctx context.Context) ([]Product, []string) {
	var (
		wg         sync.WaitGroup
		products   []Product
		categories []string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products = c.FetchProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categories = c.FetchCategories(ctx)
	}()
	wg.Wait()

	return products, categories
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) warn(msg string, err error) {
	if c.Log != nil {
		c.Log.Warn(msg, zap.Error(err), zap.String("base_url", c.BaseURL))
	}
}
