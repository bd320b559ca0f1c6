// Package safety provides helpers for sandboxed file access.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body for surfacing back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

var (
	errOutside     = ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the sandbox root"}
	errAbsolute    = ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	errDeniedRead  = ToolError{Code: "ERR_DENIED_READ", Message: "reads under .git/ or .agent/ are not allowed"}
	errDeniedWrite = ToolError{Code: "ERR_DENIED_WRITE", Message: "writes under .git/ or .agent/ and to go.mod/go.sum are not allowed"}
)

// InitSandboxRoot resolves absolute sandbox roots for read and write operations.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	readRoot, err = filepath.Abs(readRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(readRoot): %w", err)
	}
	writeRoot, err = filepath.Abs(writeRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(writeRoot): %w", err)
	}

	// Resolve symlinks where possible so boundary checks compare like with like.
	if r, err := filepath.EvalSymlinks(readRoot); err == nil {
		readRoot = r
	}
	if w, err := filepath.EvalSymlinks(writeRoot); err == nil {
		writeRoot = w
	}
	return readRoot, writeRoot, nil
}

// ValidateRelPath resolves relPath against absRoot for reading. It rejects
// absolute inputs, parent traversal and symlink escapes, and denies reads
// under .git/ and .agent/.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underReserved(rel) {
		return "", errDeniedRead
	}
	return candidate, nil
}

// ValidateWritePath is ValidateRelPath for writes. It additionally denies
// go.mod and go.sum at any depth.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underReserved(rel) {
		return "", errDeniedWrite
	}
	switch filepath.Base(rel) {
	case "go.mod", "go.sum":
		return "", errDeniedWrite
	}
	return candidate, nil
}

// resolve joins relPath under absRoot, follows symlinks on the leaf or its
// parent, and returns the absolute candidate plus its slash-form path
// relative to the root.
func resolve(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", errAbsolute
	}
	cleaned := filepath.Clean(relPath)
	candidate := filepath.Join(absRoot, cleaned)

	// The leaf may not exist yet (new files); the parent still reveals
	// escapes through a symlinked directory.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", errOutside
	}
	return candidate, filepath.ToSlash(rel), nil
}

func underReserved(rel string) bool {
	for _, dir := range []string{".git", ".agent"} {
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}
