package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// RequiredCapability is the capability spec §4.5 step 1 requires the
// daemon to advertise before a session proceeds.
const RequiredCapability = "relative_root"

// DefaultSocketPath is the conventional local socket the external daemon
// listens on. Overridable by passing a different path to Dial.
const DefaultSocketPath = "/tmp/watchkit-daemon.sock"

// Client is a thin wire client for the external watcher daemon: one
// websocket connection carrying JSON request/response frames plus
// asynchronously pushed subscription events, per spec §4.5/§6.
//
// A single goroutine (readLoop) owns the connection's read side and
// demultiplexes each frame into either a pending call's response channel
// or the Pushes channel; callers never read the connection directly,
// since coder/websocket connections support only one reader at a time.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	callMu  sync.Mutex // serializes request/response round-trips
	replies chan json.RawMessage

	pushes chan subscriptionPush
}

// dialSocket opens a session to the daemon listening on the Unix domain
// socket at socketPath. It upgrades to a websocket connection over that
// socket, the same way dashboard.Server accepts upgrades on the server
// side of this package's sibling, coder/websocket.
func dialSocket(ctx context.Context, socketPath string) (*Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				d := net.Dialer{}
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}

	conn, _, err := websocket.Dial(ctx, "ws://unix/subscribe", &websocket.DialOptions{
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("external: failed to connect to daemon at %s: %w", socketPath, err)
	}

	c := &Client{
		conn:    conn,
		replies: make(chan json.RawMessage),
		pushes:  make(chan subscriptionPush, 32),
	}
	go c.readLoop()
	return c, nil
}

// Close ends the session; pending events are dropped (spec §4.5 teardown).
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "session ended")
}

// call sends req and waits for the next non-push frame, decoding it into
// T. Calls are serialized via callMu since the daemon's protocol has no
// per-request correlation ID (spec §6): exactly one response is expected
// to follow each request, in order.
func call[T any](ctx context.Context, c *Client, req interface{}) (T, error) {
	var zero T

	c.callMu.Lock()
	defer c.callMu.Unlock()

	c.writeMu.Lock()
	err := writeJSON(ctx, c.conn, req)
	c.writeMu.Unlock()
	if err != nil {
		return zero, fmt.Errorf("external: failed to send request: %w", err)
	}

	select {
	case data, ok := <-c.replies:
		if !ok {
			return zero, fmt.Errorf("external: connection closed while awaiting response")
		}
		var resp T
		if err := json.Unmarshal(data, &resp); err != nil {
			return zero, fmt.Errorf("external: failed to decode response: %w", err)
		}
		return resp, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// CheckCapability verifies the daemon advertises RequiredCapability (spec
// §4.5 step 1 / §4.6's fallback trigger).
func (c *Client) CheckCapability(ctx context.Context) error {
	resp, err := call[capabilityCheckResponse](ctx, c, capabilityCheckRequest{
		Command:  "capabilityCheck",
		Required: []string{RequiredCapability},
	})
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("external: capability check failed: %s", resp.Error)
	}
	if !resp.Capabilities[RequiredCapability] {
		return fmt.Errorf("external: daemon missing required capability %q", RequiredCapability)
	}
	return nil
}

// WatchProject issues watch-project for dir (spec §4.5 step 2).
func (c *Client) WatchProject(ctx context.Context, dir string) (watchRoot, relativePath string, err error) {
	resp, err := call[watchProjectResponse](ctx, c, watchProjectRequest{
		Command: "watch-project",
		Dir:     dir,
	})
	if err != nil {
		return "", "", err
	}
	if resp.Error != "" {
		return "", "", fmt.Errorf("external: watch-project failed: %s", resp.Error)
	}
	return resp.Watch, resp.RelativePath, nil
}

// Subscribe issues subscribe for root/name/config (spec §4.5 steps 3-5).
// It does not wait for pushes; use Pushes to receive them.
func (c *Client) Subscribe(ctx context.Context, root, name string, patterns []string, dot, onlyFiles, onlyDirectories, wantSize, wantMtime bool, relativeRoot string) error {
	resp, err := call[subscribeResponse](ctx, c, subscribeRequest{
		Command: "subscribe",
		Root:    root,
		Name:    name,
		Config: subscriptionConfig{
			Expression:   buildExpression(patterns, dot, onlyFiles, onlyDirectories),
			Fields:       buildFields(wantSize, wantMtime),
			RelativeRoot: relativeRoot,
		},
	})
	if err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("external: subscribe failed: %s", resp.Error)
	}
	return nil
}

// Pushes returns the channel of asynchronously delivered subscription
// events. Closed when the connection's read loop terminates.
func (c *Client) Pushes() <-chan subscriptionPush {
	return c.pushes
}

// readLoop is the connection's sole reader. Every frame is peeked for a
// "subscription" field; frames that have one are asynchronous pushes,
// everything else is assumed to be the response to whichever call() is
// currently waiting on c.replies.
func (c *Client) readLoop() {
	defer close(c.pushes)
	defer close(c.replies)
	ctx := context.Background()
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var peek struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(data, &peek); err == nil && peek.Subscription != "" {
			var push subscriptionPush
			if err := json.Unmarshal(data, &push); err == nil {
				c.pushes <- push
			}
			continue
		}

		c.replies <- json.RawMessage(data)
	}
}
