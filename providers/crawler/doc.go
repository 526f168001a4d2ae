// Package crawler defines the contract between the web crawl tool and the
// component that actually retrieves and converts pages.
//
// A [Crawler] hands out [Session] values scoped to a single invocation: the
// caller opens one, performs one [Session.Fetch] with a [Config], and closes it
// on every exit path. Backends live in subpackages: httpcrawler converts pages
// locally, crawl4ai delegates to a Crawl4AI server, crawlertest is a scripted
// fake for tests.
package crawler
