package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/zerog/internal/event"
	"github.com/google/uuid"
)

func TestNewExecutor(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, DefaultTimeout},
		{-time.Second, DefaultTimeout},
		{time.Second, time.Second},
	}
	for _, tt := range tests {
		if got := NewExecutor(tt.in).Timeout(); got != tt.want {
			t.Errorf("NewExecutor(%v).Timeout() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExecutor_Execute(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "echo", `INPUT=$(cat)
echo "{\"success\":true,\"data\":$INPUT}"
`, event.KindShapeCommitted)

	session := uuid.New()
	req := &Request{
		Event:     event.KindShapeCommitted,
		SessionID: session,
		Mode:      "drawing",
		Config:    p.Manifest.Config,
		Params:    json.RawMessage(`{"kind":"shape_committed","shape":[{"x":1,"y":2}]}`),
	}

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, req)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Fatalf("response = %+v", resp)
	}

	var echoed Request
	if err := json.Unmarshal(resp.Data, &echoed); err != nil {
		t.Fatalf("decode echoed request: %v", err)
	}
	if echoed.Event != event.KindShapeCommitted || echoed.SessionID != session || echoed.Mode != "drawing" {
		t.Errorf("plugin received %+v", echoed)
	}
	if !strings.Contains(string(echoed.Params), `"shape"`) {
		t.Errorf("params = %s", echoed.Params)
	}
	if string(echoed.Config) != `{"level":"info"}` {
		t.Errorf("config = %s", echoed.Config)
	}
}

func TestExecutor_RunsInPluginDir(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "pwd", `cat >/dev/null
echo "{\"success\":true,\"data\":\"$(basename "$PWD")\"}"
`)

	resp, err := NewExecutor(0).Execute(context.Background(), p, &Request{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if string(resp.Data) != `"pwd"` {
		t.Errorf("working directory = %s, want pwd", resp.Data)
	}
}

func TestExecutor_ErrorResponse(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "fails", `cat >/dev/null
echo '{"success":false,"error":"no display"}'
`)

	resp, err := NewExecutor(0).Execute(context.Background(), p, &Request{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success || resp.Error != "no display" {
		t.Errorf("response = %+v", resp)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "slow", "sleep 10\n")

	start := time.Now()
	_, err := NewExecutor(200*time.Millisecond).Execute(context.Background(), p, &Request{})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestExecutor_ContextCancelled(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "slow", "sleep 10\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(5*time.Second).Execute(ctx, p, &Request{})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("cancellation should not be reported as a timeout")
	}
}

func TestExecutor_InvalidJSON(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "garbage", "cat >/dev/null\necho 'not json'\n")

	_, err := NewExecutor(0).Execute(context.Background(), p, &Request{})
	if err == nil || !strings.Contains(err.Error(), "not json") {
		t.Errorf("Execute() error = %v, want parse error quoting stdout", err)
	}
}

func TestExecutor_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	p := writePlugin(t, t.TempDir(), "crash", "cat >/dev/null\necho 'boom' >&2\nexit 3\n")

	_, err := NewExecutor(0).Execute(context.Background(), p, &Request{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should include stderr", err)
	}
}
