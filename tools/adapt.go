package tools

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidToolType is returned by Adapt for elements that are neither a
// struct nor a map[string]any.
var ErrInvalidToolType = errors.New("invalid tool type")

const (
	// ParametersKey is the schema field name used by tool descriptors.
	ParametersKey = "parameters"
	// InputSchemaKey is the schema field name the Messages API expects.
	InputSchemaKey = "input_schema"
)

// RemoteToolSpec is a tool description in the shape the Messages API accepts.
type RemoteToolSpec map[string]any

// Adapt converts tool descriptors into remote tool specs. Structs (or pointers
// to structs) are first converted to maps using their json tags; maps are
// copied. A "parameters" field is renamed to "input_schema" and every other
// field passes through. The input is never mutated.
func Adapt(descs []any) ([]RemoteToolSpec, error) {
	out := make([]RemoteToolSpec, 0, len(descs))
	for i, d := range descs {
		m, err := toMap(d)
		if err != nil {
			return nil, fmt.Errorf("tool %d: %w", i, err)
		}
		if schema, ok := m[ParametersKey]; ok {
			delete(m, ParametersKey)
			m[InputSchemaKey] = schema
		}
		out = append(out, RemoteToolSpec(m))
	}
	return out, nil
}

// AdaptDefinitions adapts a typed definition list.
func AdaptDefinitions(defs []ToolDefinition) ([]RemoteToolSpec, error) {
	descs := make([]any, len(defs))
	for i, d := range defs {
		descs[i] = d
	}
	return Adapt(descs)
}

func toMap(d any) (map[string]any, error) {
	switch v := d.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, x := range v {
			m[k] = x
		}
		return m, nil
	case RemoteToolSpec:
		return toMap(map[string]any(v))
	}

	rv := reflect.ValueOf(d)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrInvalidToolType, d)
	}

	m := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("decode %T: %w", d, err)
	}
	return m, nil
}
