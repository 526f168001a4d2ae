package httpcrawler

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds one fetch, including reading the body
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "webcrawl/1.0 (+https://github.com/leofalp/webcrawl)"
	// DefaultMaxBodySize is the maximum response body size (10MB)
	DefaultMaxBodySize = 10 * 1024 * 1024
	// DefaultMaxRedirects is the number of redirects followed before giving up
	DefaultMaxRedirects = 10

	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
)

// Option configures a Crawler.
type Option func(*Crawler)

// WithTimeout sets the per-fetch timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Crawler) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Crawler) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithMaxBodySize caps the number of body bytes read per page.
func WithMaxBodySize(size int64) Option {
	return func(c *Crawler) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(c *Crawler) {
		if n >= 0 {
			c.maxRedirects = n
		}
	}
}

// WithHTTPClient makes every session use client instead of building its own
// transport. Useful for tests and proxies; Close then only drops idle
// connections of that client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}
