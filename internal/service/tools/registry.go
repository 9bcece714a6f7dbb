package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/memybot/internal/core"
)

// Handler executes one tool. args is the raw JSON object the model produced.
// The returned value is serialised to JSON as the tool result.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type entry struct {
	def     core.Tool
	handler Handler
}

// Registry is the explicit set of tools the model may call.
// It is filled at startup and read-only afterwards.
type Registry struct {
	order   []string
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

func (r *Registry) Register(name, description string, schema json.RawMessage, h Handler) error {
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if h == nil {
		return fmt.Errorf("tool %q has no handler", name)
	}
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}
	if !json.Valid(schema) {
		return fmt.Errorf("tool %q has invalid parameters schema", name)
	}

	r.entries[name] = entry{
		def: core.Tool{
			Type: "function",
			Function: core.Function{
				Name:        name,
				Description: description,
				Parameters:  schema,
			},
		},
		handler: h,
	}
	r.order = append(r.order, name)
	return nil
}

// Definitions returns the tool descriptors in registration order.
func (r *Registry) Definitions() []core.Tool {
	defs := make([]core.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].def)
	}
	return defs
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Call runs the named tool and returns its JSON-encoded result.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnknownTool, name)
	}

	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}

	res, err := e.handler(ctx, args)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s result: %w", name, err)
	}
	return string(out), nil
}

// decodeArgs unmarshals args into v, rejecting unknown fields like the
// schemas' additionalProperties: false.
func decodeArgs(args json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidArguments, err)
	}
	return nil
}
