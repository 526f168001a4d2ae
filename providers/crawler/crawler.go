package crawler

import (
	"context"
	"errors"
)

// Crawler opens sessions. Implementations must be safe for concurrent use;
// sessions need not be.
type Crawler interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a scoped crawler handle owned by one invocation.
type Session interface {
	// Fetch retrieves url and converts it to Markdown according to cfg.
	Fetch(ctx context.Context, url string, cfg Config) (*Result, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}

// CrawlerFunc adapts a function to the Crawler interface.
type CrawlerFunc func(ctx context.Context) (Session, error)

// Open calls f(ctx).
func (f CrawlerFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}

// Config holds the Markdown-generation options handed to a fetch.
type Config struct {
	// IgnoreLinks strips hyperlinks, keeping their text.
	IgnoreLinks bool `json:"ignore_links"`

	// IgnoreImages drops image references entirely.
	IgnoreImages bool `json:"ignore_images"`
}

// DefaultConfig returns the configuration used when nothing is set: both
// links and images are stripped.
func DefaultConfig() Config {
	return Config{IgnoreLinks: true, IgnoreImages: true}
}

// Result is the outcome of a successful fetch.
type Result struct {
	// URL is the final URL after redirects, when the backend knows it.
	URL string `json:"url"`

	// Markdown is the converted page content.
	Markdown string `json:"markdown"`

	// Title is the document title, if any.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP status of the page response, if known.
	StatusCode int `json:"status_code,omitempty"`
}

var (
	// ErrInvalidURL is wrapped by backends for URLs they cannot fetch.
	ErrInvalidURL = errors.New("invalid url")

	// ErrUnexpectedStatus is wrapped when the page answers with a non-success status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrEmptyContent is wrapped when conversion yields no text.
	ErrEmptyContent = errors.New("empty content")

	// ErrSessionClosed is returned by Fetch on a closed session.
	ErrSessionClosed = errors.New("session closed")
)
