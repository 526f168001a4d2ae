// Package crawlertest provides a scripted in-memory [crawler.Crawler] that
// records how it is used.
package crawlertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/leofalp/webcrawl/providers/crawler"
)

// Crawler serves scripted pages and errors. It is safe for concurrent use.
type Crawler struct {
	mu         sync.Mutex
	pages      map[string]crawler.Result
	failures   map[string]error
	openErr    error
	block      bool
	panicValue any

	opened     int
	closed     int
	closeCalls int
	fetches    []Fetch
}

// Fetch records one call to Session.Fetch.
type Fetch struct {
	URL    string
	Config crawler.Config
}

var _ crawler.Crawler = (*Crawler)(nil)

// New returns a crawler with nothing scripted. Fetching an unscripted URL
// fails with an [crawler.ErrInvalidURL] error.
func New() *Crawler {
	return &Crawler{
		pages:    make(map[string]crawler.Result),
		failures: make(map[string]error),
	}
}

// AddPage makes url return markdown.
func (c *Crawler) AddPage(url, markdown string) *Crawler {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[url] = crawler.Result{URL: url, Markdown: markdown, StatusCode: 200}
	return c
}

// FailURL makes fetching url return err.
func (c *Crawler) FailURL(url string, err error) *Crawler {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[url] = err
	return c
}

// FailOpen makes every Open return err.
func (c *Crawler) FailOpen(err error) *Crawler {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
	return c
}

// Block makes Fetch wait until its context is done.
func (c *Crawler) Block() *Crawler {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block = true
	return c
}

// PanicOnFetch makes Fetch panic with v.
func (c *Crawler) PanicOnFetch(v any) *Crawler {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panicValue = v
	return c
}

// Opened returns the number of sessions handed out.
func (c *Crawler) Opened() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Closed returns the number of distinct sessions that were closed.
func (c *Crawler) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CloseCalls returns the number of Close calls across all sessions.
func (c *Crawler) CloseCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCalls
}

// Fetches returns the fetches seen so far, in call order.
func (c *Crawler) Fetches() []Fetch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Fetch(nil), c.fetches...)
}

// Open returns a new session unless FailOpen was set or ctx is done.
func (c *Crawler) Open(ctx context.Context) (crawler.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opened++
	return &session{owner: c}, nil
}

type session struct {
	owner  *Crawler
	mu     sync.Mutex
	closed bool
}

func (s *session) Fetch(ctx context.Context, url string, cfg crawler.Config) (*crawler.Result, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, crawler.ErrSessionClosed
	}

	c := s.owner
	c.mu.Lock()
	c.fetches = append(c.fetches, Fetch{URL: url, Config: cfg})
	page, hasPage := c.pages[url]
	failure := c.failures[url]
	block, panicValue := c.block, c.panicValue
	c.mu.Unlock()

	if panicValue != nil {
		panic(panicValue)
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if !hasPage {
		return nil, crawler.InvalidURL(fmt.Sprintf("no page scripted for %s", url))
	}
	return &page, nil
}

func (s *session) Close() error {
	s.mu.Lock()
	first := !s.closed
	s.closed = true
	s.mu.Unlock()

	c := s.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCalls++
	if first {
		c.closed++
	}
	return nil
}
