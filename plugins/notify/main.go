// Command notify is a sample event hook that shows a desktop notification
// when all bodies are cleared or a shape is closed.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
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
	Title  string `json:"title"`
	DryRun bool   `json:"dryRun"`
}

type eventParams struct {
	Shape []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"shape"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeError(fmt.Sprintf("decode request: %v", err))
		return
	}

	cfg := config{Title: "zerog"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeError(fmt.Sprintf("decode config: %v", err))
			return
		}
	}

	msg, err := message(req)
	if err != nil {
		writeError(err.Error())
		return
	}

	if !cfg.DryRun {
		if err := notify(cfg.Title, msg); err != nil {
			writeError(fmt.Sprintf("notify: %v", err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"message": msg})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

func message(req Request) (string, error) {
	switch req.Event {
	case "all_cleared":
		return "All bodies cleared!", nil
	case "shape_committed":
		var p eventParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return "", fmt.Errorf("decode params: %w", err)
		}
		return fmt.Sprintf("Shape closed with %d points", len(p.Shape)), nil
	}
	return "", fmt.Errorf("unsupported event: %s", req.Event)
}

func notify(title, msg string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(msg), strconv.Quote(title))
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", title, msg)
	default:
		return fmt.Errorf("notifications not supported on %s", runtime.GOOS)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

func writeError(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: msg})
}
