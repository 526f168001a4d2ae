package httpcrawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/leofalp/webcrawl/internal/utils"
	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/observability"
)

// Name identifies this backend in logs and configuration.
const Name = "http"

// Crawler opens HTTP sessions. The zero value is not usable; call [New].
type Crawler struct {
	timeout      time.Duration
	userAgent    string
	maxBodySize  int64
	maxRedirects int
	client       *http.Client
}

var _ crawler.Crawler = (*Crawler)(nil)

// New returns a Crawler with the package defaults, adjusted by opts.
//
//	c := httpcrawler.New(httpcrawler.WithTimeout(10 * time.Second))
//	tool := webcrawl.New(c)
func New(opts ...Option) *Crawler {
	c := &Crawler{
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		maxBodySize:  DefaultMaxBodySize,
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open returns a session owning its own HTTP client. It fails only when ctx
// is already done.
func (c *Crawler) Open(ctx context.Context) (crawler.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := c.client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   dialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
				MaxIdleConnsPerHost:   2,
				ForceAttemptHTTP2:     true,
			},
		}
	}

	maxRedirects := c.maxRedirects
	sessionClient := *client
	sessionClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return &Session{crawler: c, client: &sessionClient}, nil
}

// Session is one scoped HTTP crawl session.
type Session struct {
	crawler *Crawler
	client  *http.Client
	closed  atomic.Bool
}

var _ crawler.Session = (*Session)(nil)

// Close drops the session's idle connections. Further fetches fail with
// crawler.ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.client.CloseIdleConnections()
	return nil
}

// Fetch downloads rawURL and converts it to Markdown.
//
// Only absolute http and https URLs are accepted. Non-200 responses, bodies
// over the size limit and pages that convert to nothing are errors. HTML
// pages are cleaned according to cfg before conversion; plain-text bodies
// are returned as they are.
func (s *Session) Fetch(ctx context.Context, rawURL string, cfg crawler.Config) (*crawler.Result, error) {
	if s.closed.Load() {
		return nil, crawler.ErrSessionClosed
	}

	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.crawler.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.crawler.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", crawler.ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.crawler.maxBodySize+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("timeout while reading response body: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > s.crawler.maxBodySize {
		return nil, fmt.Errorf("response body exceeds maximum size of %d bytes", s.crawler.maxBodySize)
	}

	finalURL := resp.Request.URL.String()
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent("http.response.received",
			observability.String(observability.AttrHTTPURL, finalURL),
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(body)),
		)
	}

	result := &crawler.Result{URL: finalURL, StatusCode: resp.StatusCode}

	switch kind := contentKind(resp.Header.Get("Content-Type"), body); kind {
	case kindHTML:
		result.Title, result.Markdown, err = convertHTML(body, finalURL, cfg)
		if err != nil {
			return nil, err
		}
	case kindText:
		result.Markdown = string(body)
	default:
		return nil, fmt.Errorf("unsupported content type %q", kind)
	}

	if strings.TrimSpace(result.Markdown) == "" {
		return nil, fmt.Errorf("%w: %s produced no text", crawler.ErrEmptyContent, finalURL)
	}
	return result, nil
}

func validateURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, crawler.InvalidURL("URL cannot be empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, crawler.InvalidURL(err.Error())
	}
	switch u.Scheme {
	case "http", "https":
	case "":
		return nil, crawler.InvalidURL(fmt.Sprintf("missing scheme in %q", trimmed))
	default:
		return nil, crawler.InvalidURL(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, crawler.InvalidURL(fmt.Sprintf("missing host in %q", trimmed))
	}
	return u, nil
}

const (
	kindHTML = "html"
	kindText = "text"
)

// contentKind classifies a response by its Content-Type, sniffing the body
// when the header is missing.
func contentKind(header string, body []byte) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(body))
	}

	switch {
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return kindHTML
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/json",
		strings.HasSuffix(mediaType, "+json"):
		return kindText
	default:
		return mediaType
	}
}

// convertHTML removes what cfg asks to ignore and converts the rest to
// Markdown. Kept links are made absolute against pageURL.
func convertHTML(body []byte, pageURL string, cfg crawler.Config) (title, markdown string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, noscript, template").Remove()

	if cfg.IgnoreImages {
		doc.Find("img, picture, svg").Remove()
	}
	if cfg.IgnoreLinks {
		doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
			anchor.ReplaceWithSelection(anchor.Contents())
		})
	}

	cleaned, err := doc.Html()
	if err != nil {
		return "", "", fmt.Errorf("failed to render cleaned HTML: %w", err)
	}

	markdown, err = htmltomarkdown.ConvertString(cleaned, converter.WithDomain(pageURL))
	if err != nil {
		return "", "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return title, strings.TrimSpace(markdown), nil
}
