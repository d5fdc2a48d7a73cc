// Package client connects to a pokertable server and mirrors its table.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/server"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// ErrClosed is returned for requests on a closed client
var ErrClosed = errors.New("client closed")

// RemoteError is an error reported by the server. It matches
// server.ErrStaleVersion and server.ErrRejected with errors.Is.
type RemoteError struct {
	Code    string
	Message string
	Version uint64
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case server.CodeStaleVersion:
		return target == server.ErrStaleVersion
	case server.CodeRejected:
		return target == server.ErrRejected
	}
	return false
}

// wireState is server.StateData with the snapshot left raw so it passes
// through game.DecodeSnapshot
type wireState struct {
	Version uint64          `json:"version"`
	Action  game.ActionType `json:"action"`
	State   json.RawMessage `json:"state"`
}

// Client represents a WebSocket client for a remote table
type Client struct {
	conn    *websocket.Conn
	send    chan *server.Message
	updates chan server.Update
	ready   chan struct{}
	logger  *log.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	latest    server.Update
	pending   map[string]chan *server.Message
	nextID    uint64
	readyOnce sync.Once
	closeOnce sync.Once
}

// Dial connects to the server at serverURL and waits for the first copy of
// the table. http and https URLs are converted to ws and wss; an empty path
// becomes /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:    conn,
		send:    make(chan *server.Message, 64),
		updates: make(chan server.Update, 32),
		ready:   make(chan struct{}),
		logger:  logger,
		ctx:     cctx,
		cancel:  cancel,
		pending: make(map[string]chan *server.Message),
	}
	go c.readPump()
	go c.writePump()

	select {
	case <-c.ready:
		c.logger.Info("Connected to server", "version", c.Snapshot().Version)
		return c, nil
	case <-c.ctx.Done():
		_ = c.Close()
		return nil, fmt.Errorf("connection closed before the first state")
	case <-ctx.Done():
		_ = c.Close()
		return nil, ctx.Err()
	}
}

// Snapshot returns the latest known table state
func (c *Client) Snapshot() server.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return server.Update{Version: c.latest.Version, Action: c.latest.Action, State: c.latest.State.Clone()}
}

// Updates delivers every newer table state the client sees. The channel is
// closed when the connection ends.
func (c *Client) Updates() <-chan server.Update {
	return c.updates
}

// Submit applies a on the server against the latest known version
func (c *Client) Submit(ctx context.Context, a game.Action) (server.Update, error) {
	raw, err := game.MarshalAction(a)
	if err != nil {
		return server.Update{}, err
	}
	return c.request(ctx, server.MessageTypeSubmit, server.SubmitData{Base: c.Snapshot().Version, Action: raw})
}

// Adopt replaces the server's table with s
func (c *Client) Adopt(ctx context.Context, s game.GameState) (server.Update, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return server.Update{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return c.request(ctx, server.MessageTypeAdopt, server.AdoptData{Base: c.Snapshot().Version, State: raw})
}

// Sync asks the server for a fresh copy of the table
func (c *Client) Sync(ctx context.Context) (server.Update, error) {
	return c.request(ctx, server.MessageTypeSync, struct{}{})
}

// Close disconnects from the server
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		err = c.conn.Close()
		c.logger.Info("Disconnected from server")
	})
	return err
}

func (c *Client) request(ctx context.Context, t server.MessageType, data any) (server.Update, error) {
	msg, err := server.NewMessage(t, data, time.Now())
	if err != nil {
		return server.Update{}, err
	}

	reply := make(chan *server.Message, 1)
	c.mu.Lock()
	c.nextID++
	msg.RequestID = strconv.FormatUint(c.nextID, 10)
	c.pending[msg.RequestID] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
		return server.Update{}, ErrClosed
	case <-ctx.Done():
		return server.Update{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return c.decodeReply(resp)
	case <-c.ctx.Done():
		return server.Update{}, ErrClosed
	case <-ctx.Done():
		return server.Update{}, ctx.Err()
	}
}

func (c *Client) decodeReply(msg *server.Message) (server.Update, error) {
	switch msg.Type {
	case server.MessageTypeState:
		return decodeState(msg.Data)
	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return server.Update{}, fmt.Errorf("decode error reply: %w", err)
		}
		return server.Update{}, &RemoteError{Code: data.Code, Message: data.Message, Version: data.Version}
	default:
		return server.Update{}, fmt.Errorf("unexpected reply %s", msg.Type)
	}
}

func decodeState(raw json.RawMessage) (server.Update, error) {
	var ws wireState
	if err := json.Unmarshal(raw, &ws); err != nil {
		return server.Update{}, fmt.Errorf("decode state: %w", err)
	}
	state, err := game.DecodeSnapshot(ws.State)
	if err != nil {
		return server.Update{}, err
	}
	return server.Update{Version: ws.Version, Action: ws.Action, State: state}, nil
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		close(c.updates)
		c.cancel()
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

		if msg.Type == server.MessageTypeState {
			update, err := decodeState(msg.Data)
			if err != nil {
				c.logger.Error("Failed to decode state", "error", err)
			} else {
				c.observe(update)
			}
		}

		if msg.RequestID != "" {
			c.mu.Lock()
			reply, ok := c.pending[msg.RequestID]
			c.mu.Unlock()
			if ok {
				reply <- &msg
			}
		}
	}
}

// observe records update if it is newer than anything seen so far
func (c *Client) observe(update server.Update) {
	c.mu.Lock()
	first := c.latest.Version == 0
	newer := update.Version > c.latest.Version
	if newer {
		c.latest = update
	}
	c.mu.Unlock()

	if first {
		c.readyOnce.Do(func() { close(c.ready) })
		return
	}
	if !newer {
		return
	}

	select {
	case c.updates <- update:
	default:
		// Drop the oldest so the newest state always gets through
		select {
		case <-c.updates:
		default:
		}
		select {
		case c.updates <- update:
		default:
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				c.cancel()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
