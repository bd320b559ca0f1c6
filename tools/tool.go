package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Func handles one tool invocation. The returned payload must be JSON-serializable.
type Func func(ctx context.Context, input json.RawMessage) (any, error)

// ToolDefinition describes a tool and its handler. The json tags are the
// keys produced when the definition is adapted into a remote tool spec.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Function    Func           `json:"-"`
}

// GenerateSchema reflects T into an inline JSON Schema object.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := json.Marshal(schema)
	if err != nil {
		panic("tools: marshal schema: " + err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic("tools: unmarshal schema: " + err.Error())
	}
	// Drop document-level keys; the Messages API only needs the object shape.
	delete(m, "$schema")
	delete(m, "$id")
	return m
}
