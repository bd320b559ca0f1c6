package fsops

import (
	"os"
	"sync"

	"github.com/petasbytes/go-toolchat/internal/safety"
)

// Env fallbacks used when Configure is never called.
const (
	EnvReadRoot  = "TOOLCHAT_SANDBOX_READ_ROOT"
	EnvWriteRoot = "TOOLCHAT_SANDBOX_WRITE_ROOT"
)

var (
	rootsMu      sync.Mutex
	rootsSet     bool
	absReadRoot  string
	absWriteRoot string
	initRootsErr error
)

// Configure resolves the sandbox roots. Empty read defaults to the working
// directory and empty write defaults to read. Later calls replace earlier ones.
func Configure(read, write string) error {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(read, write)
	rootsSet = true
	return initRootsErr
}

// getRoots returns the resolved read/write roots, initialising them from the
// environment on first use.
func getRoots() (string, string, error) {
	rootsMu.Lock()
	defer rootsMu.Unlock()
	if !rootsSet {
		absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(os.Getenv(EnvReadRoot), os.Getenv(EnvWriteRoot))
		rootsSet = true
	}
	return absReadRoot, absWriteRoot, initRootsErr
}

// WorkDir returns the sandbox write root, where commands run.
func WorkDir() (string, error) {
	_, w, err := getRoots()
	return w, err
}
