package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leofalp/webcrawl/providers/observability"
)

// maxJSONResponseSize bounds the bytes DoJSON reads from a response.
const maxJSONResponseSize = 32 * 1024 * 1024

// DoJSON sends a request with an optional JSON body and decodes a JSON response
// into Out. A nil body sends no payload. token, when set, is sent as a Bearer
// Authorization header.
//
// Non-2xx responses return an error carrying the status code and a preview of
// the body. When a span is present in ctx, request and response events are
// recorded on it. The response body is always closed.
func DoJSON[Out any](ctx context.Context, client *http.Client, method, url, token string, body any) (*Out, error) {
	span := observability.SpanFromContext(ctx)

	if client == nil {
		client = http.DefaultClient
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.String(observability.AttrHTTPURL, url),
				observability.Error(err),
				observability.Duration(observability.AttrDuration, time.Since(start)),
			)
		}
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxJSONResponseSize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.String(observability.AttrHTTPMethod, method),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration(observability.AttrDuration, time.Since(start)),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: TruncateString(string(respBody), 200)}
	}

	var out Out
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("error unmarshaling response body (status %d): %w", res.StatusCode, err)
	}
	return &out, nil
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("non-2xx status %d", e.StatusCode)
	}
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}
