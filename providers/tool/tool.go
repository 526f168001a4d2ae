package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/leofalp/webcrawl/core/parse"
	"github.com/leofalp/webcrawl/internal/utils"
	"github.com/leofalp/webcrawl/providers/observability"
)

// Info is what a host needs to advertise a tool.
type Info struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Tool is a typed, callable tool. Use [NewTool] to construct one.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

// GenericTool hides a Tool's type parameters so tools can be stored and
// dispatched by name.
type GenericTool interface {
	// ToolInfo returns the name, description and parameter schema.
	ToolInfo() Info

	// Call decodes inputJson, runs the tool and returns its output. String
	// outputs are returned verbatim, anything else is JSON-encoded.
	Call(ctx context.Context, inputJson string) (string, error)
}

type funcToolOptions struct {
	Description string
}

// WithDescription sets the description shown to the model.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// NewTool builds a Tool named name around function. Input and output schemas
// are reflected from I and O.
//
//	crawl := tool.NewTool("web_crawl", crawlFunc,
//	    tool.WithDescription("Crawl the web page url"),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  GenerateSchema[I](),
		Output:      GenerateSchema[O](),
		Function:    function,
	}
}

// GenerateSchema reflects the JSON schema of T with every definition inlined.
// Struct fields without omitempty are required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(new(T))
	schema.Version = ""
	return schema
}

func (t *Tool[I, O]) ToolInfo() Info {
	return Info{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Call parses inputJson leniently into I, runs the function and encodes its
// output. Span events are recorded when ctx carries a span.
func (t *Tool[I, O]) Call(ctx context.Context, inputJson string) (string, error) {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, utils.TruncateString(inputJson, utils.DefaultMaxStringLength)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	start := time.Now()

	parsedInput, err := parse.ParseStringAs[I](inputJson)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(observability.String(observability.AttrToolError, err.Error()))
		}
		return "", err
	}

	output, err := t.Function(ctx, parsedInput)
	duration := time.Since(start)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, duration),
			)
		}
		return "", err
	}

	text, err := encodeOutput(output)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		return "", err
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, utils.TruncateString(text, utils.DefaultMaxStringLength)),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}
	return text, nil
}

func encodeOutput(output any) (string, error) {
	if s, ok := output.(string); ok {
		return s, nil
	}
	raw, err := json.Marshal(output)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
