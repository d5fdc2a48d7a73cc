package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/pokertable/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Snapshots carry the rollback
	// history, so this is larger than a single action needs.
	maxMessageSize = 1 << 20
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	table       *Table
	send        chan *Message
	updates     <-chan Update
	unsubscribe func()
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// NewConnection wraps conn and subscribes it to table updates
func NewConnection(conn *websocket.Conn, table *Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	updates, unsubscribe := table.Subscribe()

	return &Connection{
		conn:        conn,
		table:       table,
		send:        make(chan *Message, 64),
		updates:     updates,
		unsubscribe: unsubscribe,
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start sends the current state and begins handling the connection
func (c *Connection) Start() {
	c.sendState(c.table.Snapshot(), "")
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.unsubscribe()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues msg for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump forwards queued messages and table updates to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}

		case update, ok := <-c.updates:
			if !ok {
				return
			}
			msg, err := NewMessage(MessageTypeState, stateData(update), time.Now())
			if err != nil {
				c.logger.Error("Failed to encode state", "error", err)
				continue
			}
			if err := c.write(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) write(msg *Message) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Error("Failed to write message", "error", err)
		return err
	}
	return nil
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case MessageTypeSubmit:
		var data SubmitData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, "failed to parse submit data", 0)
			return
		}
		action, err := game.UnmarshalAction(data.Action)
		if err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, err.Error(), 0)
			return
		}
		c.reply(msg.RequestID, func() (Update, error) { return c.table.Submit(data.Base, action) })

	case MessageTypeAdopt:
		var data AdoptData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, "failed to parse adopt data", 0)
			return
		}
		state, err := game.DecodeSnapshot(data.State)
		if err != nil {
			c.sendError(msg.RequestID, CodeInvalidMessage, err.Error(), 0)
			return
		}
		c.reply(msg.RequestID, func() (Update, error) { return c.table.Adopt(data.Base, state) })

	case MessageTypeSync:
		c.sendState(c.table.Snapshot(), msg.RequestID)

	default:
		c.sendError(msg.RequestID, CodeUnknownType, "unknown message type: "+msg.Type.String(), 0)
	}
}

// reply runs a table operation and answers the request with the resulting
// state or an error
func (c *Connection) reply(requestID string, op func() (Update, error)) {
	update, err := op()
	switch {
	case errors.Is(err, ErrStaleVersion):
		c.sendError(requestID, CodeStaleVersion, err.Error(), update.Version)
	case err != nil:
		c.sendError(requestID, CodeRejected, err.Error(), update.Version)
	default:
		c.sendState(update, requestID)
	}
}

func (c *Connection) sendState(u Update, requestID string) {
	msg, err := NewMessage(MessageTypeState, stateData(u), time.Now())
	if err != nil {
		c.logger.Error("Failed to encode state", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string, version uint64) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message, Version: version}, time.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}
