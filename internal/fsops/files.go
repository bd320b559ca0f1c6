package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/go-toolchat/internal/safety"
)

type access int

const (
	readAccess access = iota
	writeAccess
)

// resolve maps relPath to an absolute path under the root for mode, applying
// the matching sandbox policy.
func resolve(mode access, relPath string) (string, error) {
	readRoot, writeRoot, err := getRoots()
	if err != nil {
		return "", err
	}
	if mode == writeAccess {
		return safety.ValidateWritePath(writeRoot, relPath)
	}
	if relPath == "" {
		relPath = "."
	}
	return safety.ValidateRelPath(readRoot, relPath)
}

// ReadFile returns the contents of a file under the read root. Policy
// violations come back as safety.ToolError.
func ReadFile(relPath string) (string, error) {
	p, err := resolve(readAccess, relPath)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(p); err != nil {
		return "", err
	} else if fi.IsDir() {
		return "", safety.ToolError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListFiles lists one directory level under the read root in os.ReadDir
// order. Directory names end in "/". An empty relDir means the root.
func ListFiles(relDir string) ([]string, error) {
	p, err := resolve(readAccess, relDir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name()+"/")
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// WriteFile replaces the file at relPath under the write root, creating
// missing parent directories.
func WriteFile(relPath, content string) error {
	p, err := resolve(writeAccess, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(content), 0o644)
}
