package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ayusman/zerog/internal/event"
)

// ErrPluginNotFound is returned when a requested plugin cannot be found.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers plugins in a directory.
type Manager struct {
	pluginDir string

	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewManager creates a manager for pluginDir. Call Discover to load plugins.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover replaces the loaded plugins with those found in the plugin
// directory. A missing directory yields no plugins. Broken manifests are
// logged and skipped.
func (m *Manager) Discover() error {
	found := make(map[string]*Plugin)

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read plugin dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.pluginDir, entry.Name())
		p, err := loadPlugin(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			log.Printf("Skipping plugin %s: %v", dir, err)
			continue
		}
		if _, dup := found[p.Manifest.Name]; dup {
			log.Printf("Skipping plugin %s: duplicate name %q", dir, p.Manifest.Name)
			continue
		}
		found[p.Manifest.Name] = p
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()
	return nil
}

func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, errors.New("manifest needs a name and an executable")
	}
	if strings.Contains(manifest.Executable, "..") {
		return nil, fmt.Errorf("executable %q escapes the plugin directory", manifest.Executable)
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// Get returns the plugin called name, or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return p, nil
}

// List returns every plugin sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Plugin) int {
		return strings.Compare(a.Manifest.Name, b.Manifest.Name)
	})
	return out
}

// Subscribers returns the plugins that handle kind, sorted by name.
func (m *Manager) Subscribers(kind event.Kind) []*Plugin {
	var out []*Plugin
	for _, p := range m.List() {
		if p.Manifest.Handles(kind) {
			out = append(out, p)
		}
	}
	return out
}

// PluginDir returns the plugin directory.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
