package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type echoResponse struct {
	Method string `json:"method"`
	Auth   string `json:"auth"`
	Body   string `json:"body"`
}

func TestDoJSON_PostWithToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"method":"`+r.Method+`","auth":"`+r.Header.Get("Authorization")+`","body":`+quote(string(body))+`}`)
	}))
	defer server.Close()

	out, err := DoJSON[echoResponse](context.Background(), server.Client(), http.MethodPost, server.URL, "secret", map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("DoJSON failed: %v", err)
	}
	if out.Method != http.MethodPost {
		t.Errorf("Expected POST, got %s", out.Method)
	}
	if out.Auth != "Bearer secret" {
		t.Errorf("Expected bearer token, got %q", out.Auth)
	}
	if out.Body != `{"a":"b"}` {
		t.Errorf("Expected marshaled body, got %q", out.Body)
	}
}

func TestDoJSON_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "warming up")
	}))
	defer server.Close()

	_, err := DoJSON[echoResponse](context.Background(), nil, http.MethodGet, server.URL, "", nil)
	if err == nil {
		t.Fatal("Expected error for 503")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "warming up") {
		t.Errorf("Expected body preview in error, got %v", err)
	}
}

func TestDoJSON_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer server.Close()

	_, err := DoJSON[echoResponse](context.Background(), nil, http.MethodGet, server.URL, "", nil)
	if err == nil || !strings.Contains(err.Error(), "unmarshaling") {
		t.Errorf("Expected unmarshal error, got %v", err)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	got := TruncateString(strings.Repeat("a", 20), 5)
	if got != "aaaaa... (truncated, total: 20 chars)" {
		t.Errorf("Unexpected truncation: %q", got)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
