package crawl4ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/leofalp/webcrawl/internal/utils"
	"github.com/leofalp/webcrawl/providers/crawler"
)

const (
	// Name identifies this backend in logs and configuration.
	Name = "crawl4ai"

	// DefaultBaseURL is where a local Crawl4AI docker container listens.
	DefaultBaseURL = "http://localhost:11235"

	// DefaultTimeout covers browser start-up and page rendering.
	DefaultTimeout = 60 * time.Second
)

// ErrUnavailable is wrapped when the health check does not report "ok".
var ErrUnavailable = errors.New("crawl4ai server unavailable")

// Crawler talks to one Crawl4AI server.
type Crawler struct {
	baseURL   string
	token     string
	timeout   time.Duration
	userAgent string
	client    *http.Client
}

var _ crawler.Crawler = (*Crawler)(nil)

// Option configures a Crawler.
type Option func(*Crawler)

// WithAPIToken sets the bearer token for servers running with JWT auth.
func WithAPIToken(token string) Option {
	return func(c *Crawler) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Crawler) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent asks the server's browser to use userAgent.
func WithUserAgent(userAgent string) Option {
	return func(c *Crawler) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

// New returns a Crawler for the server at baseURL ([DefaultBaseURL] if empty).
func New(baseURL string, opts ...Option) *Crawler {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Crawler{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open checks that the server is healthy and returns a session bound to it.
func (c *Crawler) Open(ctx context.Context) (crawler.Session, error) {
	client := c.client
	if client == nil {
		client = &http.Client{Transport: &http.Transport{Proxy: http.ProxyFromEnvironment}}
	}

	healthCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	health, err := utils.DoJSON[healthResponse](healthCtx, client, http.MethodGet, c.baseURL+"/health", c.token, nil)
	if err != nil {
		client.CloseIdleConnections()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !strings.EqualFold(health.Status, "ok") {
		client.CloseIdleConnections()
		return nil, fmt.Errorf("%w: health status %q", ErrUnavailable, health.Status)
	}

	return &Session{crawler: c, client: client}, nil
}

// Session is one scoped Crawl4AI session.
type Session struct {
	crawler *Crawler
	client  *http.Client
	closed  atomic.Bool
}

var _ crawler.Session = (*Session)(nil)

// Close drops idle API connections. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.client.CloseIdleConnections()
	return nil
}

// Fetch asks the server to crawl url and returns its raw Markdown.
func (s *Session) Fetch(ctx context.Context, url string, cfg crawler.Config) (*crawler.Result, error) {
	if s.closed.Load() {
		return nil, crawler.ErrSessionClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.crawler.timeout)
	defer cancel()

	resp, err := utils.DoJSON[crawlResponse](ctx, s.client, http.MethodPost, s.crawler.baseURL+"/crawl", s.crawler.token, s.crawler.newRequest(url, cfg))
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return nil, fmt.Errorf("crawl4ai returned no result for %s", url)
	}

	res := resp.Results[0]
	if !res.Success {
		if res.ErrorMessage != "" {
			return nil, errors.New(res.ErrorMessage)
		}
		return nil, fmt.Errorf("crawl4ai failed to crawl %s", url)
	}
	if res.Markdown == nil || strings.TrimSpace(res.Markdown.RawMarkdown) == "" {
		return nil, fmt.Errorf("%w: %s produced no markdown", crawler.ErrEmptyContent, url)
	}

	finalURL := res.RedirectedURL
	if finalURL == "" {
		finalURL = res.URL
	}
	return &crawler.Result{
		URL:        finalURL,
		Markdown:   res.Markdown.RawMarkdown,
		Title:      res.Metadata.Title,
		StatusCode: res.StatusCode,
	}, nil
}

func (c *Crawler) newRequest(url string, cfg crawler.Config) crawlRequest {
	return crawlRequest{
		URLs: []string{url},
		BrowserConfig: typed{
			Type:   "BrowserConfig",
			Params: browserParams{Headless: true, UserAgent: c.userAgent},
		},
		CrawlerConfig: typed{
			Type: "CrawlerRunConfig",
			Params: crawlerParams{
				CacheMode:   "bypass",
				PageTimeout: c.timeout.Milliseconds(),
				MarkdownGenerator: typed{
					Type: "DefaultMarkdownGenerator",
					Params: markdownGeneratorParams{
						Options: dict{
							Type: "dict",
							Value: markdownOptions{
								IgnoreLinks:  cfg.IgnoreLinks,
								IgnoreImages: cfg.IgnoreImages,
							},
						},
					},
				},
			},
		},
	}
}
