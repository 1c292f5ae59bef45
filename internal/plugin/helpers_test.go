package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ayusman/zerog/internal/event"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script plugins need a POSIX shell")
	}
}

// writePlugin creates root/name with a manifest and an executable shell
// script, and returns the loaded Plugin.
func writePlugin(t *testing.T, root, name, script string, events ...event.Kind) *Plugin {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: "hook.sh",
		Events:     events,
		Config:     json.RawMessage(`{"level":"info"}`),
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	exe := filepath.Join(dir, "hook.sh")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	return &Plugin{Manifest: manifest, Path: dir, Executable: exe}
}
