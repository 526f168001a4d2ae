package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IgnoreLinks || !cfg.IgnoreImages {
		t.Errorf("Expected both flags to default to true, got %+v", cfg)
	}
}

func TestInvalidURL(t *testing.T) {
	err := InvalidURL("bad scheme")
	if err.Error() != "bad scheme" {
		t.Errorf("Expected message 'bad scheme', got %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidURL) {
		t.Error("Expected errors.Is(err, ErrInvalidURL)")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(OpFetch, "u", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}

	cause := InvalidURL("bad scheme")
	err := Wrap(OpFetch, "not-a-url", cause)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fe.Op != OpFetch || fe.URL != "not-a-url" {
		t.Errorf("Unexpected fields: %+v", fe)
	}
	if err.Error() != "bad scheme" {
		t.Errorf("Expected cause message, got %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidURL) {
		t.Error("Wrapped error should still match ErrInvalidURL")
	}

	if again := Wrap(OpOpen, "other", err); again != err {
		t.Error("Wrapping a FetchError should return it unchanged")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("connection refused"), "connection refused"},
		{"fetch error", Wrap(OpFetch, "u", errors.New("timeout")), "timeout"},
		{"wrapped fetch error", fmt.Errorf("outer: %w", Wrap(OpOpen, "u", errors.New("no browser"))), "no browser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCrawlerFunc(t *testing.T) {
	wantErr := errors.New("unavailable")
	var c Crawler = CrawlerFunc(func(ctx context.Context) (Session, error) {
		return nil, wantErr
	})
	if _, err := c.Open(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Expected %v, got %v", wantErr, err)
	}
}
