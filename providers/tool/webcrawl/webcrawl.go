package webcrawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/observability"
)

const (
	// ErrorPrefix starts every failure text returned by Crawl.
	ErrorPrefix = "Error reading url: "

	readingPrefix = "Reading: "
	readCompleted = "Read completed"
)

// Tool reads web pages through a crawler. A Tool holds no per-call state and
// may be used by concurrent invocations.
type Tool struct {
	crawler  crawler.Crawler
	valves   Valves
	observer observability.Provider
	backend  string
}

// Option configures a Tool.
type Option func(*Tool)

// WithValves sets the valves used for every invocation.
func WithValves(v Valves) Option {
	return func(t *Tool) {
		t.valves = v
	}
}

// WithObserver enables spans, metrics and logs through p. Without it the
// observer found in the call context, if any, is used.
func WithObserver(p observability.Provider) Option {
	return func(t *Tool) {
		t.observer = p
	}
}

// WithBackendName labels spans and metrics with the crawler backend in use.
func WithBackendName(name string) Option {
	return func(t *Tool) {
		t.backend = name
	}
}

// New returns a Tool backed by c, using [DefaultValves] unless overridden.
func New(c crawler.Crawler, opts ...Option) *Tool {
	t := &Tool{
		crawler: c,
		valves:  DefaultValves(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Valves returns the tool's valves.
func (t *Tool) Valves() Valves {
	return t.valves
}

// WithValves returns a copy of t using v. The receiver is not modified.
func (t *Tool) WithValves(v Valves) *Tool {
	clone := *t
	clone.valves = v
	return &clone
}

// Crawl reads url and returns its Markdown, or ErrorPrefix followed by the
// failure message. When sink is non-nil it receives a "crawling" event
// followed by one terminal event. The crawler session is closed before Crawl
// returns, whatever the outcome.
func (t *Tool) Crawl(ctx context.Context, url string, sink EventSink) string {
	observer := t.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	cfg := t.valves.CrawlerConfig()
	start := time.Now()

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanCrawl,
			observability.String(observability.AttrCrawlInvocationID, uuid.NewString()),
			observability.String(observability.AttrCrawlURL, url),
			observability.String(observability.AttrCrawlBackend, t.backend),
			observability.Bool(observability.AttrCrawlIgnoreLinks, cfg.IgnoreLinks),
			observability.Bool(observability.AttrCrawlIgnoreImages, cfg.IgnoreImages),
		)
		defer span.End()
	}

	t.emit(ctx, observer, sink, StatusEvent{Description: readingPrefix + url, Status: StatusCrawling})

	res, err := t.fetch(ctx, observer, url, cfg)
	duration := time.Since(start)

	if observer != nil {
		metricAttrs := []observability.Attribute{
			observability.String(observability.AttrCrawlBackend, t.backend),
		}
		observer.Counter(observability.MetricCrawlCount).Add(ctx, 1, metricAttrs...)
		observer.Histogram(observability.MetricCrawlDuration).Record(ctx, float64(duration.Milliseconds()), metricAttrs...)
		if err != nil {
			observer.Counter(observability.MetricCrawlErrorCount).Add(ctx, 1, metricAttrs...)
		}
	}

	if err != nil {
		text := ErrorPrefix + crawler.Message(err)
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(observability.String(observability.AttrCrawlStatus, string(StatusError)))
			span.SetStatus(observability.StatusError, text)
		}
		if observer != nil {
			observer.Warn(ctx, "crawl failed",
				observability.String(observability.AttrCrawlURL, url),
				observability.Error(err),
				observability.Duration(observability.AttrDuration, duration),
			)
		}
		t.emit(ctx, observer, sink, StatusEvent{Description: text, Status: StatusError, Done: true})
		return text
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrCrawlStatus, string(StatusDone)),
			observability.String(observability.AttrCrawlFinalURL, res.URL),
			observability.Int(observability.AttrCrawlMarkdownLength, len(res.Markdown)),
		)
		span.SetStatus(observability.StatusOK, "")
	}
	if observer != nil {
		observer.Debug(ctx, "crawl completed",
			observability.String(observability.AttrCrawlURL, url),
			observability.Int(observability.AttrCrawlMarkdownLength, len(res.Markdown)),
			observability.Duration(observability.AttrDuration, duration),
		)
	}
	t.emit(ctx, observer, sink, StatusEvent{Description: readCompleted, Status: StatusDone, Done: true})
	return res.Markdown
}

// fetch runs one scoped session. Every failure, including a panic raised by
// the crawler, comes back as a *crawler.FetchError.
func (t *Tool) fetch(ctx context.Context, observer observability.Provider, url string, cfg crawler.Config) (res *crawler.Result, err error) {
	op := crawler.OpOpen
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = crawler.Wrap(op, url, fmt.Errorf("crawler panic: %v", r))
		}
	}()

	if t.crawler == nil {
		return nil, crawler.Wrap(op, url, errors.New("no crawler configured"))
	}

	session, err := t.crawler.Open(ctx)
	if err != nil {
		return nil, crawler.Wrap(op, url, err)
	}
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventCrawlSessionOpened)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			t.warn(ctx, observer, "failed to close crawler session", observability.Error(closeErr))
		}
		if span != nil {
			span.AddEvent(observability.EventCrawlSessionClosed)
		}
	}()

	op = crawler.OpFetch
	res, err = session.Fetch(ctx, url, cfg)
	if err != nil {
		return nil, crawler.Wrap(op, url, err)
	}
	if res == nil {
		return nil, crawler.Wrap(op, url, crawler.ErrEmptyContent)
	}
	return res, nil
}

func (t *Tool) emit(ctx context.Context, observer observability.Provider, sink EventSink, event StatusEvent) {
	if sink == nil {
		return
	}
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventCrawlStatus,
			observability.String(observability.AttrStatus, string(event.Status)),
			observability.String(observability.AttrStatusDescription, event.Description),
		)
	}
	if err := safeEmit(ctx, sink, event); err != nil {
		t.warn(ctx, observer, "failed to emit status event",
			observability.String(observability.AttrStatus, string(event.Status)),
			observability.Error(err),
		)
	}
}

func safeEmit(ctx context.Context, sink EventSink, event StatusEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event sink panic: %v", r)
		}
	}()
	return sink.Emit(ctx, event)
}

func (t *Tool) warn(ctx context.Context, observer observability.Provider, msg string, attrs ...observability.Attribute) {
	if observer != nil {
		observer.Warn(ctx, msg, attrs...)
		return
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, slog.Any(attr.Key, attr.Value))
	}
	slog.WarnContext(ctx, msg, args...)
}
