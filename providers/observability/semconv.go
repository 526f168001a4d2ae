package observability

// Attribute keys, span names, event names and metric names shared by the
// crawler backends, the web crawl tool and the MCP server.

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized, truncated)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"
)

const (
	// AttrCrawlInvocationID identifies one call of the crawl tool
	AttrCrawlInvocationID = "crawl.invocation_id"

	// AttrCrawlURL is the URL exactly as received from the caller
	AttrCrawlURL = "crawl.url"

	// AttrCrawlFinalURL is the URL after redirects, as reported by the backend
	AttrCrawlFinalURL = "crawl.final_url"

	// AttrCrawlBackend names the crawler backend (http, crawl4ai)
	AttrCrawlBackend = "crawl.backend"

	// AttrCrawlIgnoreLinks mirrors the IGNORE_LINKS valve
	AttrCrawlIgnoreLinks = "crawl.ignore_links"

	// AttrCrawlIgnoreImages mirrors the IGNORE_IMAGES valve
	AttrCrawlIgnoreImages = "crawl.ignore_images"

	// AttrCrawlMarkdownLength is the length of the returned markdown in bytes
	AttrCrawlMarkdownLength = "crawl.markdown.length"

	// AttrCrawlStatus is the status tag of an emitted status event
	AttrCrawlStatus = "crawl.status"
)

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

const (
	// SpanToolExecution wraps one generic tool call
	SpanToolExecution = "tool.execution"

	// SpanCrawl wraps one web crawl invocation
	SpanCrawl = "webcrawl.crawl"
)

const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"

	// EventCrawlSessionOpened fires once the backend session is acquired
	EventCrawlSessionOpened = "crawl.session.opened"

	// EventCrawlSessionClosed fires after the session is released
	EventCrawlSessionClosed = "crawl.session.closed"

	// EventCrawlStatus fires for every status event sent to the sink
	EventCrawlStatus = "crawl.status"
)

const (
	// MetricCrawlCount counts crawl invocations
	MetricCrawlCount = "webcrawl.crawls"

	// MetricCrawlErrorCount counts crawl invocations that ended with an error status
	MetricCrawlErrorCount = "webcrawl.crawl_errors"

	// MetricCrawlDuration records invocation latency in milliseconds
	MetricCrawlDuration = "webcrawl.crawl_duration_ms"
)
