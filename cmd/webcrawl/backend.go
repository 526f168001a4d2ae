package main

import (
	"fmt"

	"github.com/leofalp/webcrawl/internal/config"
	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/crawler/crawl4ai"
	"github.com/leofalp/webcrawl/providers/crawler/httpcrawler"
)

// newCrawler builds the backend selected by cfg.Backend.
func newCrawler(cfg *config.Config) (crawler.Crawler, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		return httpcrawler.New(
			httpcrawler.WithTimeout(cfg.HTTP.Timeout.Std()),
			httpcrawler.WithUserAgent(cfg.HTTP.UserAgent),
			httpcrawler.WithMaxBodySize(cfg.HTTP.MaxBodySize),
		), nil
	case config.BackendCrawl4AI:
		return crawl4ai.New(cfg.Crawl4AI.URL,
			crawl4ai.WithAPIToken(cfg.Crawl4AI.Token),
			crawl4ai.WithTimeout(cfg.Crawl4AI.Timeout.Std()),
			crawl4ai.WithUserAgent(cfg.HTTP.UserAgent),
		), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
