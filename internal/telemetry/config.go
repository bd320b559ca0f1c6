package telemetry

import (
	"os"
	"strconv"
	"sync"
)

// Env names for the telemetry settings. internal/config reads the same
// variables as telemetry.observe and telemetry.artifacts_dir; the fallbacks
// here cover processes that never call Configure.
const (
	EnvObserve      = "TOOLCHAT_TELEMETRY_OBSERVE"
	EnvArtifactsDir = "TOOLCHAT_TELEMETRY_ARTIFACTS_DIR"
)

// DefaultArtifactsDir holds events.jsonl when nothing else is configured.
const DefaultArtifactsDir = ".agent"

var (
	mu           sync.RWMutex
	observe      bool
	artifactsDir string
)

// Configure sets startup telemetry options. observe enables JSONL emission;
// dir is where events.jsonl is written (empty keeps the default).
func Configure(observeJSON bool, dir string) {
	mu.Lock()
	defer mu.Unlock()
	observe = observeJSON
	artifactsDir = dir
}

// ObserveEnabled reports whether JSONL emission is on, either by Configure
// or by a true TOOLCHAT_TELEMETRY_OBSERVE ("1", "true", ...).
func ObserveEnabled() bool {
	if on, err := strconv.ParseBool(os.Getenv(EnvObserve)); err == nil && on {
		return true
	}
	mu.RLock()
	defer mu.RUnlock()
	return observe
}

// ArtifactsDir returns the directory holding events.jsonl.
func ArtifactsDir() string {
	mu.RLock()
	dir := artifactsDir
	mu.RUnlock()
	if dir != "" {
		return dir
	}
	if v := os.Getenv(EnvArtifactsDir); v != "" {
		return v
	}
	return DefaultArtifactsDir
}
