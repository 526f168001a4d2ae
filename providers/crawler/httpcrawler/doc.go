// Package httpcrawler is the local crawler backend: it fetches pages with
// net/http, strips links and images with goquery according to the
// crawler.Config, and converts the remaining HTML to Markdown with
// html-to-markdown.
//
// Each [Crawler.Open] builds a fresh HTTP transport, so concurrent invocations
// never share connections; [Session.Close] releases it. No JavaScript is
// executed. Use the crawl4ai backend for pages that need a browser.
package httpcrawler
