package webcrawl

import (
	"context"
	"encoding/json"
	"testing"
)

func TestStatusEvent_Envelope(t *testing.T) {
	event := StatusEvent{Description: "Reading: https://example.com", Status: StatusCrawling}

	raw, err := json.Marshal(event.Envelope())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"status","data":{"description":"Reading: https://example.com","status":"crawling","done":false}}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestEventSinkFromContext(t *testing.T) {
	if EventSinkFromContext(context.Background()) != nil {
		t.Error("Expected nil sink for bare context")
	}

	sink := &recorder{}
	ctx := ContextWithEventSink(context.Background(), sink)
	if EventSinkFromContext(ctx) != sink {
		t.Error("Expected the stored sink")
	}
}
