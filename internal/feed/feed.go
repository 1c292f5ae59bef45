// Package feed reads hand landmarks from a remote WebSocket source, such as a
// browser-side tracker, as an alternative to the local camera pipeline.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ayusman/zerog/internal/detector"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/gorilla/websocket"
)

// Reconnect delays.
const (
	minBackoff = 250 * time.Millisecond
	maxBackoff = 5 * time.Second
)

// Client subscribes to a landmark stream and publishes one signal per message.
type Client struct {
	url     string
	reducer *detector.Reducer
	latest  *gesture.Latest
	dialer  *websocket.Dialer

	received atomic.Uint64
	dropped  atomic.Uint64
}

// New creates a client for the ws:// or wss:// url.
func New(url string, reducer *detector.Reducer, latest *gesture.Latest) *Client {
	return &Client{
		url:     url,
		reducer: reducer,
		latest:  latest,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

// Run keeps a connection open until ctx is done, reconnecting with backoff.
// The signal is cleared whenever the stream drops.
func (c *Client) Run(ctx context.Context) error {
	backoff := minBackoff
	for {
		start := time.Now()
		err := c.session(ctx)
		c.latest.Clear()

		if ctx.Err() != nil {
			return nil
		}
		log.Printf("Landmark feed %s: %v", c.url, err)

		if time.Since(start) > maxBackoff {
			backoff = minBackoff
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// session reads one connection until it fails or ctx is done.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	log.Printf("Landmark feed connected: %s", c.url)

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("closed by peer")
			}
			return fmt.Errorf("read: %w", err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	hands, err := detector.DecodeHands(data)
	if err != nil {
		if c.dropped.Add(1) == 1 {
			log.Printf("Landmark feed: dropping malformed message: %v", err)
		}
		return
	}
	c.latest.Store(c.reducer.Reduce(hands))
	c.received.Add(1)
}

// Received returns how many messages were turned into signals.
func (c *Client) Received() uint64 {
	return c.received.Load()
}

// Dropped returns how many messages could not be decoded.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}
