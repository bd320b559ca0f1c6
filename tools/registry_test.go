package tools_test

import (
	"testing"

	"github.com/petasbytes/go-toolchat/tools"
)

func TestRegistry_ToolCount(t *testing.T) {
	defs := tools.Registry()
	wantCount := 4 // read_file, list_files, edit_file, shell
	if len(defs) != wantCount {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), wantCount)
	}
}

func TestRegistry_ToolNames(t *testing.T) {
	defs := tools.Registry()
	want := map[string]struct{}{
		"read_file":  {},
		"list_files": {},
		"edit_file":  {},
		"shell":      {},
	}

	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Fatalf("unexpected tool in registry: %q", d.Name)
		}
		if d.Function == nil {
			t.Errorf("tool %q has no handler", d.Name)
		}
	}

	got := map[string]struct{}{}
	for _, d := range defs {
		got[d.Name] = struct{}{}
	}
	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing expected tool: %q", name)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

func TestRegistry_AdaptsForMessagesAPI(t *testing.T) {
	specs, err := tools.AdaptDefinitions(tools.Registry())
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	for _, s := range specs {
		if _, ok := s[tools.ParametersKey]; ok {
			t.Errorf("%v: parameters not renamed", s["name"])
		}
		schema, ok := s[tools.InputSchemaKey].(map[string]any)
		if !ok {
			t.Fatalf("%v: input_schema missing or not an object: %T", s["name"], s[tools.InputSchemaKey])
		}
		if schema["type"] != "object" {
			t.Errorf("%v: schema type = %v", s["name"], schema["type"])
		}
	}
}
