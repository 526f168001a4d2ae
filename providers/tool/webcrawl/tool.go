package webcrawl

import (
	"context"

	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/tool"
)

const (
	// ToolName is the name the host dispatches on.
	ToolName = "web_crawl"

	// ToolDescription is shown to the model.
	ToolDescription = "Crawl the web page url"
)

// Input is the argument object of web_crawl.
type Input struct {
	URL string `json:"url" jsonschema:"description=The web page URL to crawl."`
}

// NewWebCrawlTool returns the web_crawl host tool. Status events go to the
// sink found in the call context, see [ContextWithEventSink].
//
// Example:
//
//	crawl := webcrawl.NewWebCrawlTool(httpcrawler.New(),
//	    webcrawl.WithValves(webcrawl.Valves{IgnoreLinks: false, IgnoreImages: true}),
//	)
//	catalog := tool.NewCatalog(crawl)
func NewWebCrawlTool(c crawler.Crawler, opts ...Option) *tool.Tool[Input, string] {
	return New(c, opts...).AsTool()
}

// AsTool exposes t as the web_crawl host tool.
func (t *Tool) AsTool() *tool.Tool[Input, string] {
	return tool.NewTool(
		ToolName,
		func(ctx context.Context, input Input) (string, error) {
			return t.Crawl(ctx, input.URL, EventSinkFromContext(ctx)), nil
		},
		tool.WithDescription(ToolDescription),
	)
}
