package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/zerog/internal/app"
	"github.com/ayusman/zerog/internal/config"
	"github.com/ayusman/zerog/internal/mode"
	"github.com/ayusman/zerog/internal/store"
	"github.com/ayusman/zerog/internal/tray"
)

// hookHistory is how long hook runs are kept in the database.
const hookHistory = 30 * 24 * time.Hour

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := flag.String("data", filepath.Join(home, ".zerog"), "directory for the settings database")
	pluginDir := flag.String("plugins", "", "plugin directory (default <data>/plugins)")
	modeName := flag.String("mode", "physics", "initial mode: physics or drawing")
	feedURL := flag.String("feed", "", "read landmarks from this ws:// URL instead of the camera")
	cameraID := flag.Int("camera", -1, "camera device ID (default from settings)")
	headless := flag.Bool("headless", false, "run without the preview window")
	useTray := flag.Bool("tray", false, "show a system tray menu (implies -headless)")
	noCamera := flag.Bool("no-camera", false, "do not start hand tracking at launch")
	var sets []string
	flag.Func("set", "persist a setting as key=value (repeatable)", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf("want key=value, got %q", s)
		}
		sets = append(sets, s)
		return nil
	})
	flag.Parse()

	fmt.Println("zerog - hand-driven physics and drawing")

	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(filepath.Join(*dataDir, "zerog.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	for _, kv := range sets {
		key, value, _ := strings.Cut(kv, "=")
		if err := st.Settings().Set(key, value); err != nil {
			log.Fatalf("Failed to save setting %s: %v", key, err)
		}
		log.Printf("Saved setting %s=%s", key, value)
	}

	cfg := config.Default()
	settings, err := st.Settings().All()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	cfg.Apply(settings)
	if *feedURL != "" {
		cfg.Capture.FeedURL = *feedURL
	}
	if *cameraID >= 0 {
		cfg.Capture.CameraID = *cameraID
	}
	if *headless || *useTray {
		cfg.Display.Window = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	initial, err := mode.ParseKind(*modeName)
	if err != nil {
		log.Fatalf("Invalid -mode: %v", err)
	}

	if *pluginDir == "" {
		*pluginDir = filepath.Join(*dataDir, "plugins")
	}
	if n, err := st.HookRuns().Prune(time.Now().Add(-hookHistory)); err != nil {
		log.Printf("Failed to prune hook history: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d old hook runs", n)
	}

	a, err := app.New(app.Options{
		Config:    cfg,
		Store:     st,
		PluginDir: *pluginDir,
		Mode:      initial,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()
	log.Printf("Loaded %d plugins from %s", len(a.Plugins().List()), *pluginDir)

	if !*noCamera {
		if err := a.StartCamera(); err != nil {
			log.Printf("Camera unavailable: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *useTray {
		runTray(ctx, stop, a)
		return
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		log.Printf("Frame loop failed: %v", err)
	}
	log.Println("Shutting down")
}

// runTray runs the frame loop in the background and the tray on the main
// goroutine until either side asks to stop.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App) {
	t := tray.New(trayState(a.Status()))
	t.OnCamera(func() bool {
		running, err := a.ToggleCamera()
		if err != nil {
			log.Printf("Camera toggle failed: %v", err)
		}
		return running
	})
	t.OnMode(func() string { return a.ToggleMode().String() })
	t.OnReset(a.Reset)
	t.OnQuit(stop)

	go func() {
		if err := a.Run(ctx); err != nil {
			log.Printf("Frame loop failed: %v", err)
		}
		t.Quit()
	}()

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetState(trayState(a.Status()))
			}
		}
	}()

	t.Run()
	stop()
	log.Println("Shutting down")
}

func trayState(st app.Status) tray.State {
	return tray.State{
		Camera:  st.Camera,
		Mode:    st.Mode.String(),
		Summary: st.String(),
	}
}
