// Package plugin runs external event hooks. A hook is an executable in its
// own directory next to a plugin.json manifest listing the events it wants.
// It receives one JSON Request on stdin and answers with one JSON Response.
package plugin

import (
	"encoding/json"
	"slices"

	"github.com/ayusman/zerog/internal/event"
	"github.com/google/uuid"
)

// ManifestFile is the manifest name looked up in every plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []event.Kind    `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Handles reports whether the plugin subscribes to kind.
func (m *Manifest) Handles(kind event.Kind) bool {
	return slices.Contains(m.Events, kind)
}

// Request is sent to a plugin for each event it subscribes to.
type Request struct {
	Event     event.Kind      `json:"event"`
	SessionID uuid.UUID       `json:"sessionId"`
	Mode      string          `json:"mode"`
	Config    json.RawMessage `json:"config,omitempty"`
	// Params is the JSON-encoded event.
	Params json.RawMessage `json:"params"`
}

// Response is what a plugin prints on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
