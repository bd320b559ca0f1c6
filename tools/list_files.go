package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/petasbytes/go-toolchat/internal/fsops"
)

type ListFilesInput struct {
	Path     string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from (defaults to current directory)."`
	Page     int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListFilesPageSize is the fallback page size when page_size <= 0.
const defaultListFilesPageSize = 200

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "List names of files in a directory within the workspace (non-recursive).",
	Parameters:  ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles lists one directory level under the sandbox, sorted and paged.
// page defaults to 1 and page_size to 200. The payload is a []string, so the
// tool_result carries a JSON array.
func ListFiles(_ context.Context, input json.RawMessage) (any, error) {
	var in ListFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultListFilesPageSize
	}

	names, err := fsops.ListFiles(in.Path)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	start := (page - 1) * pageSize
	if start >= len(names) {
		return []string{}, nil
	}
	end := min(start+pageSize, len(names))
	return names[start:end], nil
}
