package provider

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolchat/tools"
)

// NewAnthropicClient returns a client using API key from the env.
// SDK-level retries are disabled; the chat loop owns the retry budget.
func NewAnthropicClient(opts ...option.RequestOption) *anthropic.Client {
	opts = append([]option.RequestOption{option.WithMaxRetries(0)}, opts...)
	c := anthropic.NewClient(opts...)
	return &c
}

const DefaultModel = anthropic.Model("claude-3-opus-20240229")
const APIVersion = "2023-06-01"

// DefaultMaxTokens caps the output size of a single generation request.
const DefaultMaxTokens = 4096

// ToolParams converts adapted tool specs into the SDK's tool params. name,
// description and input_schema map onto typed fields; every other top-level
// key is sent as-is. Within input_schema, keys beyond properties, required
// and type ($defs, additionalProperties, ...) are sent unchanged as well.
func ToolParams(specs []tools.RemoteToolSpec) ([]anthropic.ToolUnionParam, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(specs))
	for i, spec := range specs {
		name, _ := spec["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("tool spec %d: missing name", i)
		}
		tp := anthropic.ToolParam{
			Name: name,
		}
		if desc, ok := spec["description"].(string); ok && desc != "" {
			tp.Description = anthropic.String(desc)
		}
		schema, err := inputSchema(spec[tools.InputSchemaKey])
		if err != nil {
			return nil, fmt.Errorf("tool spec %q: %w", name, err)
		}
		tp.InputSchema = schema

		extra := map[string]any{}
		for k, v := range spec {
			switch k {
			case "name", "description", tools.InputSchemaKey:
			default:
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			tp.SetExtraFields(extra)
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tp})
	}
	return out, nil
}

func inputSchema(v any) (anthropic.ToolInputSchemaParam, error) {
	var p anthropic.ToolInputSchemaParam
	if v == nil {
		return p, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return p, fmt.Errorf("%s must be an object, got %T", tools.InputSchemaKey, v)
	}
	for k, val := range m {
		switch k {
		case "properties":
			p.Properties = val
		case "required":
			p.Required = requiredNames(val)
		case "type":
			if t, _ := val.(string); t != "object" {
				return p, fmt.Errorf("%s type must be \"object\", got %v", tools.InputSchemaKey, val)
			}
		default:
			if p.ExtraFields == nil {
				p.ExtraFields = map[string]any{}
			}
			p.ExtraFields[k] = val
		}
	}
	return p, nil
}

func requiredNames(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}
