package plugin

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/store"
	"github.com/google/uuid"
)

// Recorder persists the outcome of a hook run.
type Recorder interface {
	Record(run *store.HookRun) error
}

// maxInFlight caps concurrent plugin processes.
const maxInFlight = 4

// Dispatcher delivers events to subscribed plugins in the background so the
// frame loop never waits on a plugin.
type Dispatcher struct {
	manager   *Manager
	executor  *Executor
	sessionID uuid.UUID
	recorder  Recorder

	slots chan struct{}
	wg    sync.WaitGroup
}

// NewDispatcher creates a dispatcher. recorder may be nil.
func NewDispatcher(manager *Manager, executor *Executor, sessionID uuid.UUID, recorder Recorder) *Dispatcher {
	return &Dispatcher{
		manager:   manager,
		executor:  executor,
		sessionID: sessionID,
		recorder:  recorder,
		slots:     make(chan struct{}, maxInFlight),
	}
}

// SessionID identifies this run of the application in requests.
func (d *Dispatcher) SessionID() uuid.UUID {
	return d.sessionID
}

// Dispatch starts every subscriber of e and returns how many were started.
// When all slots are busy the event is dropped for the remaining plugins.
func (d *Dispatcher) Dispatch(ctx context.Context, e event.Event, mode string) int {
	subs := d.manager.Subscribers(e.Kind)
	if len(subs) == 0 {
		return 0
	}

	params, err := json.Marshal(e)
	if err != nil {
		log.Printf("Encoding %s event: %v", e.Kind, err)
		return 0
	}

	started := 0
	for _, p := range subs {
		select {
		case d.slots <- struct{}{}:
		default:
			log.Printf("Plugin %s: too many hooks running, dropping %s", p.Manifest.Name, e.Kind)
			continue
		}

		req := &Request{
			Event:     e.Kind,
			SessionID: d.sessionID,
			Mode:      mode,
			Config:    p.Manifest.Config,
			Params:    params,
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer func() { <-d.slots }()
			d.run(ctx, p, req)
		}()
		started++
	}
	return started
}

func (d *Dispatcher) run(ctx context.Context, p *Plugin, req *Request) {
	start := time.Now()
	resp, err := d.executor.Execute(ctx, p, req)

	run := &store.HookRun{
		Plugin:    p.Manifest.Name,
		Event:     string(req.Event),
		SessionID: d.sessionID,
		Duration:  time.Since(start),
	}
	switch {
	case err != nil:
		run.Error = err.Error()
		log.Printf("Plugin %s on %s: %v", p.Manifest.Name, req.Event, err)
	case !resp.Success:
		run.Error = resp.Error
		log.Printf("Plugin %s on %s reported failure: %s", p.Manifest.Name, req.Event, resp.Error)
	default:
		run.Success = true
	}

	if d.recorder != nil {
		if err := d.recorder.Record(run); err != nil {
			log.Printf("Recording plugin run: %v", err)
		}
	}
}

// Wait blocks until every started hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
