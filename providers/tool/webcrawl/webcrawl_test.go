package webcrawl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/crawler/crawlertest"
	"github.com/leofalp/webcrawl/providers/observability"
	"github.com/leofalp/webcrawl/providers/observability/slogobs"
)

// recorder is an EventSink that keeps every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []StatusEvent
	err    error
}

func (r *recorder) Emit(ctx context.Context, event StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recorder) snapshot() []StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusEvent(nil), r.events...)
}

// assertLifecycle checks one crawling event followed by one terminal event.
func assertLifecycle(t *testing.T, events []StatusEvent, url string, terminal Status, description string) {
	t.Helper()
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d: %+v", len(events), events)
	}
	first := StatusEvent{Description: "Reading: " + url, Status: StatusCrawling, Done: false}
	if events[0] != first {
		t.Errorf("First event = %+v, want %+v", events[0], first)
	}
	last := StatusEvent{Description: description, Status: terminal, Done: true}
	if events[1] != last {
		t.Errorf("Terminal event = %+v, want %+v", events[1], last)
	}
}

func assertSessionsReleased(t *testing.T, c *crawlertest.Crawler) {
	t.Helper()
	if c.Opened() != c.Closed() {
		t.Errorf("Opened %d sessions but closed %d", c.Opened(), c.Closed())
	}
	if c.CloseCalls() != c.Closed() {
		t.Errorf("Sessions closed more than once: %d calls for %d sessions", c.CloseCalls(), c.Closed())
	}
}

func TestCrawl_Success(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "# Example Domain\n\nThis domain is for use in examples.")
	sink := &recorder{}

	got := New(fake).Crawl(context.Background(), "https://example.com", sink)

	if got != "# Example Domain\n\nThis domain is for use in examples." {
		t.Errorf("Unexpected result %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://example.com", StatusDone, "Read completed")
	if fake.Opened() != 1 {
		t.Errorf("Expected one session, got %d", fake.Opened())
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_InvalidURL(t *testing.T) {
	fake := crawlertest.New().FailURL("not-a-url", crawler.InvalidURL("bad scheme"))
	sink := &recorder{}

	got := New(fake).Crawl(context.Background(), "not-a-url", sink)

	if got != "Error reading url: bad scheme" {
		t.Errorf("Unexpected result %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "not-a-url", StatusError, "Error reading url: bad scheme")
	assertSessionsReleased(t, fake)
}

func TestCrawl_NilSink(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "markdown")

	if got := New(fake).Crawl(context.Background(), "https://example.com", nil); got != "markdown" {
		t.Errorf("Unexpected result %q", got)
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_ConcurrentInvocations(t *testing.T) {
	fake := crawlertest.New()
	for i := range 20 {
		fake.AddPage(fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("page %d", i))
	}
	crawlTool := New(fake)

	var g errgroup.Group
	for i := range 20 {
		g.Go(func() error {
			url := fmt.Sprintf("https://example.com/%d", i)
			sink := &recorder{}
			got := crawlTool.Crawl(context.Background(), url, sink)
			if want := fmt.Sprintf("page %d", i); got != want {
				return fmt.Errorf("%s: got %q, want %q", url, got, want)
			}
			events := sink.snapshot()
			if len(events) != 2 || events[0].Description != "Reading: "+url || events[1].Status != StatusDone {
				return fmt.Errorf("%s: unexpected events %+v", url, events)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if fake.Opened() != 20 {
		t.Errorf("Expected one session per invocation, got %d", fake.Opened())
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_OpenFailure(t *testing.T) {
	fake := crawlertest.New().FailOpen(errors.New("browser unavailable"))
	sink := &recorder{}

	got := New(fake).Crawl(context.Background(), "https://example.com", sink)

	if got != "Error reading url: browser unavailable" {
		t.Errorf("Unexpected result %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://example.com", StatusError, got)
	if fake.Opened() != 0 {
		t.Errorf("No session should be open, got %d", fake.Opened())
	}
}

func TestCrawl_WrappedErrorMessage(t *testing.T) {
	fake := crawlertest.New().FailURL("https://example.com/missing",
		fmt.Errorf("%w: 404 Not Found", crawler.ErrUnexpectedStatus))

	got := New(fake).Crawl(context.Background(), "https://example.com/missing", nil)

	if got != "Error reading url: unexpected status: 404 Not Found" {
		t.Errorf("Unexpected result %q", got)
	}
}

func TestCrawl_Cancelled(t *testing.T) {
	fake := crawlertest.New().AddPage("https://slow.example", "late").Block()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	sink := &recorder{}

	got := New(fake).Crawl(ctx, "https://slow.example", sink)

	if got != "Error reading url: "+context.DeadlineExceeded.Error() {
		t.Errorf("Unexpected result %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://slow.example", StatusError, got)
	if fake.Opened() != 1 {
		t.Fatalf("Expected one session, got %d", fake.Opened())
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_CancelledBeforeOpen(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "markdown")
	ctx, cancel := context.WithCancel(context.Background())

	sink := EventSinkFunc(func(ctx context.Context, event StatusEvent) error {
		if event.Status == StatusCrawling {
			cancel()
		}
		return nil
	})

	got := New(fake).Crawl(ctx, "https://example.com", sink)

	if got != "Error reading url: "+context.Canceled.Error() {
		t.Errorf("Unexpected result %q", got)
	}
	if fake.Opened() != 0 {
		t.Errorf("No session should be opened on a cancelled context, got %d", fake.Opened())
	}
}

func TestCrawl_CrawlerPanic(t *testing.T) {
	fake := crawlertest.New().PanicOnFetch("renderer crashed")
	sink := &recorder{}

	got := New(fake).Crawl(context.Background(), "https://example.com", sink)

	if got != "Error reading url: crawler panic: renderer crashed" {
		t.Errorf("Unexpected result %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://example.com", StatusError, got)
	if fake.Opened() != 1 {
		t.Fatalf("Expected one session, got %d", fake.Opened())
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_NilResult(t *testing.T) {
	nilSession := crawler.CrawlerFunc(func(ctx context.Context) (crawler.Session, error) {
		return nilResultSession{}, nil
	})

	got := New(nilSession).Crawl(context.Background(), "https://example.com", nil)

	if got != "Error reading url: empty content" {
		t.Errorf("Unexpected result %q", got)
	}
}

type nilResultSession struct{}

func (nilResultSession) Fetch(ctx context.Context, url string, cfg crawler.Config) (*crawler.Result, error) {
	return nil, nil
}

func (nilResultSession) Close() error { return errors.New("already gone") }

func TestCrawl_NoCrawler(t *testing.T) {
	got := New(nil).Crawl(context.Background(), "https://example.com", nil)
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("Expected error text, got %q", got)
	}
}

func TestCrawl_SinkErrorIgnored(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "markdown")
	sink := &recorder{err: errors.New("websocket closed")}

	got := New(fake).Crawl(context.Background(), "https://example.com", sink)

	if got != "markdown" {
		t.Errorf("Sink errors must not change the result, got %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://example.com", StatusDone, "Read completed")
}

func TestCrawl_SinkPanicIgnored(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "markdown")
	sink := EventSinkFunc(func(ctx context.Context, event StatusEvent) error {
		panic("host gone")
	})

	if got := New(fake).Crawl(context.Background(), "https://example.com", sink); got != "markdown" {
		t.Errorf("Sink panics must not change the result, got %q", got)
	}
	assertSessionsReleased(t, fake)
}

func TestCrawl_ValvesPassThrough(t *testing.T) {
	testCases := []Valves{
		{IgnoreLinks: true, IgnoreImages: true},
		{IgnoreLinks: false, IgnoreImages: true},
		{IgnoreLinks: true, IgnoreImages: false},
		{IgnoreLinks: false, IgnoreImages: false},
	}

	for _, valves := range testCases {
		t.Run(fmt.Sprintf("%+v", valves), func(t *testing.T) {
			fake := crawlertest.New().AddPage("https://example.com", "markdown")
			sink := &recorder{}

			got := New(fake, WithValves(valves)).Crawl(context.Background(), "https://example.com", sink)

			if got != "markdown" {
				t.Errorf("Unexpected result %q", got)
			}
			fetches := fake.Fetches()
			if len(fetches) != 1 {
				t.Fatalf("Expected 1 fetch, got %d", len(fetches))
			}
			want := crawler.Config{IgnoreLinks: valves.IgnoreLinks, IgnoreImages: valves.IgnoreImages}
			if fetches[0].Config != want {
				t.Errorf("Config = %+v, want %+v", fetches[0].Config, want)
			}
			assertLifecycle(t, sink.snapshot(), "https://example.com", StatusDone, "Read completed")
		})
	}
}

func TestTool_WithValvesReturnsCopy(t *testing.T) {
	original := New(crawlertest.New())
	changed := original.WithValves(Valves{IgnoreLinks: false, IgnoreImages: true})

	if original.Valves() != DefaultValves() {
		t.Errorf("Original valves changed: %+v", original.Valves())
	}
	if changed.Valves().IgnoreLinks {
		t.Error("Copy should carry the new valves")
	}
}

func TestCrawl_Observer(t *testing.T) {
	var logs bytes.Buffer
	observer := slogobs.New(
		slogobs.WithOutput(&logs),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithFormat(slogobs.FormatJSON),
	)
	fake := crawlertest.New().
		AddPage("https://example.com", "markdown").
		FailURL("not-a-url", crawler.InvalidURL("bad scheme"))
	crawlTool := New(fake, WithObserver(observer), WithBackendName("test"))

	crawlTool.Crawl(context.Background(), "https://example.com", nil)
	crawlTool.Crawl(context.Background(), "not-a-url", nil)

	if got := observer.CounterValue(observability.MetricCrawlCount); got != 2 {
		t.Errorf("Expected 2 crawls counted, got %d", got)
	}
	if got := observer.CounterValue(observability.MetricCrawlErrorCount); got != 1 {
		t.Errorf("Expected 1 crawl error counted, got %d", got)
	}

	output := logs.String()
	for _, want := range []string{
		observability.SpanCrawl,
		observability.AttrCrawlInvocationID,
		"crawl failed",
		"bad scheme",
		observability.EventCrawlSessionClosed,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in logs:\n%s", want, output)
		}
	}
}

func TestCrawl_ObserverFromContext(t *testing.T) {
	observer := slogobs.New(slogobs.WithOutput(&bytes.Buffer{}))
	fake := crawlertest.New().AddPage("https://example.com", "markdown")
	ctx := observability.ContextWithObserver(context.Background(), observer)

	New(fake).Crawl(ctx, "https://example.com", nil)

	if got := observer.CounterValue(observability.MetricCrawlCount); got != 1 {
		t.Errorf("Expected context observer to be used, got %d crawls", got)
	}
}
