package crawl4ai

import "encoding/json"

// typed is the {"type": ..., "params": ...} envelope Crawl4AI uses to
// deserialize its configuration classes.
type typed struct {
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// crawlRequest is the body of POST /crawl.
type crawlRequest struct {
	URLs          []string `json:"urls"`
	BrowserConfig typed    `json:"browser_config"`
	CrawlerConfig typed    `json:"crawler_config"`
}

type browserParams struct {
	Headless  bool   `json:"headless"`
	UserAgent string `json:"user_agent,omitempty"`
}

type crawlerParams struct {
	CacheMode         string `json:"cache_mode"`
	MarkdownGenerator typed  `json:"markdown_generator"`
	PageTimeout       int64  `json:"page_timeout,omitempty"`
}

type markdownGeneratorParams struct {
	Options dict `json:"options"`
}

// dict is how plain Python dicts are passed inside typed configuration.
type dict struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type markdownOptions struct {
	IgnoreLinks  bool `json:"ignore_links"`
	IgnoreImages bool `json:"ignore_images"`
}

// crawlResponse is the body returned by POST /crawl.
type crawlResponse struct {
	Success bool          `json:"success"`
	Results []crawlResult `json:"results"`
	Error   string        `json:"error,omitempty"`
}

type crawlResult struct {
	URL           string    `json:"url"`
	RedirectedURL string    `json:"redirected_url,omitempty"`
	Success       bool      `json:"success"`
	StatusCode    int       `json:"status_code,omitempty"`
	Markdown      *markdown `json:"markdown,omitempty"`
	Metadata      struct {
		Title string `json:"title,omitempty"`
	} `json:"metadata,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// markdown accepts both shapes Crawl4AI has used for the field: a plain
// string, or a MarkdownGenerationResult object.
type markdown struct {
	RawMarkdown string `json:"raw_markdown"`
	FitMarkdown string `json:"fit_markdown,omitempty"`
}

func (m *markdown) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		m.RawMarkdown = str
		return nil
	}

	type alias markdown
	return json.Unmarshal(data, (*alias)(m))
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
