// Package webcrawl implements the web_crawl tool: given a URL it reads the
// page through a [crawler.Crawler] and returns the page as Markdown.
//
// Every invocation opens its own crawler session, performs a single fetch and
// closes the session before returning. Progress is reported as [StatusEvent]
// values on an optional [EventSink]: one "crawling" event, then exactly one
// terminal "done" or "error" event.
//
// [Tool.Crawl] never returns an error. Failures from the crawler, including
// panics, become the text "Error reading url: <message>", which is both
// returned and carried by the terminal event.
//
// Basic usage:
//
//	t := webcrawl.New(httpcrawler.New())
//	markdown := t.Crawl(ctx, "https://example.com", nil)
//
// Hosts that dispatch tools by name use [NewWebCrawlTool] and pass the sink
// through the context with [ContextWithEventSink].
package webcrawl
