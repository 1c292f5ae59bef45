// Command chime is an event hook that plays a system sound for each event.
// Sounds are configurable per event.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Request is the hook input read from stdin.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"sessionId"`
	Mode      string          `json:"mode"`
	Config    json.RawMessage `json:"config"`
	Params    json.RawMessage `json:"params"`
}

// Response is the hook output written to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type config struct {
	// Sounds maps an event name to a sound name, e.g. "Glass".
	Sounds map[string]string `json:"sounds"`
	DryRun bool              `json:"dryRun"`
}

// defaultSounds maps events to sound names shipped with macOS.
var defaultSounds = map[string]string{
	"all_cleared":     "Glass",
	"shape_committed": "Pop",
}

// players maps GOOS to the command that plays a named sound.
var players = map[string]func(name string) *exec.Cmd{
	"darwin": func(name string) *exec.Cmd {
		return exec.Command("afplay", filepath.Join("/System/Library/Sounds", name+".aiff"))
	},
	"linux": func(name string) *exec.Cmd {
		return exec.Command("canberra-gtk-play", "--id", name)
	},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeError(fmt.Sprintf("decode request: %v", err))
		return
	}

	cfg := config{}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeError(fmt.Sprintf("decode config: %v", err))
			return
		}
	}

	sound, err := soundFor(req.Event, cfg.Sounds)
	if err != nil {
		writeError(err.Error())
		return
	}

	if !cfg.DryRun {
		if err := play(sound); err != nil {
			writeError(fmt.Sprintf("play %s: %v", sound, err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"sound": sound})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// soundFor picks the configured sound for event, falling back to the default.
func soundFor(event string, sounds map[string]string) (string, error) {
	if s, ok := sounds[event]; ok && s != "" {
		return s, nil
	}
	if s, ok := defaultSounds[event]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unsupported event: %s", event)
}

func play(sound string) error {
	player, ok := players[runtime.GOOS]
	if !ok {
		return fmt.Errorf("sounds not supported on %s", runtime.GOOS)
	}
	if out, err := player(sound).CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

func writeError(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: msg})
}
