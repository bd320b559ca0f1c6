package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownTool is returned when the model asks for a tool the dispatcher
// has no handler for.
var ErrUnknownTool = errors.New("unknown tool")

// Dispatcher maps tool names to handlers. It satisfies chat.ToolProvider.
type Dispatcher struct {
	handlers map[string]Func
}

// NewDispatcher indexes defs by name. A later definition with the same name
// replaces an earlier one.
func NewDispatcher(defs []ToolDefinition) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]Func, len(defs))}
	for _, def := range defs {
		if def.Function == nil {
			continue
		}
		d.handlers[def.Name] = def.Function
	}
	return d
}

// Call runs the handler registered for name with the raw JSON arguments.
func (d *Dispatcher) Call(ctx context.Context, name string, input json.RawMessage) (any, error) {
	fn, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return fn(ctx, input)
}

// Has reports whether a handler is registered for name.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

// ProviderFunc adapts a plain function into a tool provider.
type ProviderFunc func(ctx context.Context, name string, input json.RawMessage) (any, error)

func (f ProviderFunc) Call(ctx context.Context, name string, input json.RawMessage) (any, error) {
	return f(ctx, name, input)
}
