package webcrawl

import "context"

// Status tags a StatusEvent.
type Status string

const (
	StatusCrawling Status = "crawling"
	StatusDone     Status = "done"
	StatusError    Status = "error"
)

// StatusEvent is a progress notification for one invocation.
type StatusEvent struct {
	Description string `json:"description"`
	Status      Status `json:"status"`
	Done        bool   `json:"done"`
}

// Envelope is the host wire form of a status event:
//
//	{"type": "status", "data": {"description": "...", "status": "...", "done": false}}
type Envelope struct {
	Type string      `json:"type"`
	Data StatusEvent `json:"data"`
}

// Envelope wraps e for the host event channel.
func (e StatusEvent) Envelope() Envelope {
	return Envelope{Type: "status", Data: e}
}

// EventSink receives the status events of an invocation. A returned error is
// logged by the tool and otherwise ignored.
type EventSink interface {
	Emit(ctx context.Context, event StatusEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event StatusEvent) error

// Emit calls f(ctx, event).
func (f EventSinkFunc) Emit(ctx context.Context, event StatusEvent) error {
	return f(ctx, event)
}

type sinkKey struct{}

// ContextWithEventSink returns a copy of ctx carrying sink.
func ContextWithEventSink(ctx context.Context, sink EventSink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

// EventSinkFromContext returns the sink stored in ctx, or nil.
func EventSinkFromContext(ctx context.Context) EventSink {
	sink, _ := ctx.Value(sinkKey{}).(EventSink)
	return sink
}
