package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Google Books API root.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// StatusError reports a non-200 response from the catalog.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config tunes the client.
type Config struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	RPS        float64
	MaxRetries int
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	group      singleflight.Group
	backoff    func(attempt int) time.Duration

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context of one shared lookup. It is cancelled once every
// caller waiting on it has returned.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		flights:    make(map[string]*flight),
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s...
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
	}
}

// VolumesResponse matches GET /volumes.
type VolumesResponse struct {
	TotalItems int    `json:"totalItems"`
	Items      []Item `json:"items"`
}

type Item struct {
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the subset of volume metadata the library uses. Pointer
// fields are nil when the catalog omits them.
type VolumeInfo struct {
	Title         *string     `json:"title"`
	Authors       []string    `json:"authors"`
	Description   *string     `json:"description"`
	PublishedDate *string     `json:"publishedDate"`
	Categories    []string    `json:"categories"`
	ImageLinks    *ImageLinks `json:"imageLinks"`
}

type ImageLinks struct {
	Thumbnail *string `json:"thumbnail"`
}

// Search runs a volumes query such as "isbn:9780306406157".
func (c *Client) Search(ctx context.Context, query string) (*VolumesResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByISBN returns the first volume matching the ISBN, or nil when the
// catalog reports no match. Concurrent calls for the same ISBN share one
// request, which keeps running while at least one caller still waits on it.
func (c *Client) FindByISBN(ctx context.Context, isbn string) (*VolumeInfo, error) {
	f := c.join(ctx, isbn)
	defer c.leave(isbn, f)

	ch := c.group.DoChan(isbn, func() (any, error) {
		res, err := c.Search(f.ctx, "isbn:"+isbn)
		if err != nil {
			return nil, err
		}
		if res.TotalItems > 0 && len(res.Items) > 0 {
			info := res.Items[0].VolumeInfo
			return &info, nil
		}
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		info, _ := r.Val.(*VolumeInfo)
		if info == nil {
			return nil, nil
		}
		out := *info
		return &out, nil
	}
}

func (c *Client) join(ctx context.Context, isbn string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[isbn]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[isbn] = f
	}
	f.waiters++
	return f
}

// leave drops a waiter. The last one out cancels the shared request and
// forgets it so the next caller starts a fresh one.
func (c *Client) leave(isbn string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[isbn] == f {
		delete(c.flights, isbn)
		c.group.Forget(isbn)
	}
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff(i)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode volumes response: %w", err)
	}
	return nil
}
