package webcrawl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/crawler/crawlertest"
	"github.com/leofalp/webcrawl/providers/tool"
)

func TestNewWebCrawlTool_Info(t *testing.T) {
	crawlTool := NewWebCrawlTool(crawlertest.New())

	info := crawlTool.ToolInfo()
	if info.Name != "web_crawl" || info.Description != "Crawl the web page url" {
		t.Errorf("Unexpected info %+v", info)
	}

	raw, err := json.Marshal(info.Parameters)
	if err != nil {
		t.Fatal(err)
	}
	var schema struct {
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatal(err)
	}
	if schema.Properties["url"]["type"] != "string" {
		t.Errorf("Expected string url parameter: %s", raw)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "url" {
		t.Errorf("Expected url to be required: %s", raw)
	}
}

func TestNewWebCrawlTool_CallWithContextSink(t *testing.T) {
	fake := crawlertest.New().AddPage("https://example.com", "# Example")
	var generic tool.GenericTool = NewWebCrawlTool(fake, WithValves(Valves{IgnoreLinks: false, IgnoreImages: true}))

	sink := &recorder{}
	ctx := ContextWithEventSink(context.Background(), sink)

	got, err := generic.Call(ctx, `{"url": "https://example.com"}`)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != "# Example" {
		t.Errorf("Unexpected output %q", got)
	}
	assertLifecycle(t, sink.snapshot(), "https://example.com", StatusDone, "Read completed")

	if cfg := fake.Fetches()[0].Config; cfg != (crawler.Config{IgnoreImages: true}) {
		t.Errorf("Unexpected config %+v", cfg)
	}
}

func TestNewWebCrawlTool_FailureIsText(t *testing.T) {
	fake := crawlertest.New().FailURL("not-a-url", crawler.InvalidURL("bad scheme"))

	got, err := NewWebCrawlTool(fake).Call(context.Background(), `{"url":"not-a-url"}`)
	if err != nil {
		t.Fatalf("Crawl failures must not surface as errors: %v", err)
	}
	if got != "Error reading url: bad scheme" {
		t.Errorf("Unexpected output %q", got)
	}
}
