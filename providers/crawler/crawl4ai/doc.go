// Package crawl4ai is a crawler backend that delegates fetching, browser
// rendering and Markdown generation to a Crawl4AI server over its REST API.
//
// [Crawler.Open] checks the server's /health endpoint, so an unreachable
// server surfaces as a session acquisition failure. [Session.Fetch] posts one
// URL to /crawl with a DefaultMarkdownGenerator configured from the
// crawler.Config flags.
package crawl4ai
