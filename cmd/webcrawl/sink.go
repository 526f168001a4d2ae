package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/leofalp/webcrawl/providers/tool/webcrawl"
)

// stderrSink writes status events as lines, plain or as JSON envelopes.
type stderrSink struct {
	w    io.Writer
	json bool
}

func (s *stderrSink) Emit(ctx context.Context, event webcrawl.StatusEvent) error {
	if s.json {
		return json.NewEncoder(s.w).Encode(event.Envelope())
	}
	_, err := fmt.Fprintf(s.w, "[%s] %s\n", event.Status, event.Description)
	return err
}
