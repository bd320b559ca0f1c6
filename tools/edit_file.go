package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/petasbytes/go-toolchat/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; must be present when editing an existing file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileDefinition = ToolDefinition{
	Name: "edit_file",
	Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file doesn’t exist, a new file is created.

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
	Parameters: EditFileInputSchema,
	Function:   EditFile,
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

var errInvalidEdit = errors.New("invalid edit parameters")

func EditFile(_ context.Context, input json.RawMessage) (any, error) {
	var in EditFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	if in.Path == "" || in.OldStr == in.NewStr {
		return nil, errInvalidEdit
	}

	oldContent, readErr := fsops.ReadFile(in.Path)
	if readErr != nil {
		// Missing file with empty old_str creates it; anything else is the read error.
		if in.OldStr != "" {
			return nil, readErr
		}
		if err := fsops.WriteFile(in.Path, in.NewStr); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Successfully created file %s", in.Path), nil
	}

	if in.OldStr == "" {
		return nil, fmt.Errorf("old_str must be provided when editing an existing file")
	}
	if !strings.Contains(oldContent, in.OldStr) {
		return nil, fmt.Errorf("old_str not found in file")
	}

	if err := fsops.WriteFile(in.Path, strings.ReplaceAll(oldContent, in.OldStr, in.NewStr)); err != nil {
		return nil, err
	}
	return "OK", nil
}
