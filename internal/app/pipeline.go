package app

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/zerog/internal/feed"
)

// runPipeline reads camera frames until stopCh closes and publishes one
// gesture signal per detected frame.
//
// Frames are sampled at the idle rate until the motion detector fires, then
// at the active rate until the gate times out. Hand detection only runs
// while active; an idle pipeline leaves the last signal in place, since a
// hand that stopped moving is still where it was.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.gate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motion, _ := a.motion.Detect(frame)
			if fps, changed := a.gate.Observe(motion, now); changed {
				a.camera.SetFPS(fps)
				ticker.Reset(a.gate.Interval())
				if a.gate.Active() {
					log.Println("Switched to active mode")
				} else {
					log.Println("Switched to idle mode")
				}
			}

			if !a.gate.Active() || a.detector == nil {
				frame.Close()
				continue
			}

			hands, err := a.detector.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}
			a.latest.Store(a.reducer.Reduce(hands))
		}
	}
}

// runFeed reads signals from a remote landmark stream until ctx is done.
func (a *App) runFeed(ctx context.Context, url string, done chan<- struct{}) {
	defer close(done)
	client := feed.New(url, a.reducer, &a.latest)
	if err := client.Run(ctx); err != nil {
		log.Printf("Landmark feed stopped: %v", err)
	}
	log.Printf("Landmark feed closed after %d messages (%d dropped)", client.Received(), client.Dropped())
}
