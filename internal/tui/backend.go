package tui

import (
	"context"

	"github.com/lox/pokertable/internal/client"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/server"
)

// Backend is the table the TUI drives
type Backend interface {
	// Snapshot returns the latest known state
	Snapshot() server.Update
	// Apply submits a and returns the resulting state
	Apply(ctx context.Context, a game.Action) (server.Update, error)
	// Updates delivers changes made by someone else. Nil when nobody else
	// can change the table.
	Updates() <-chan server.Update
}

// LocalBackend drives an in-process table
type LocalBackend struct {
	table *server.Table
}

// NewLocalBackend wraps table
func NewLocalBackend(table *server.Table) *LocalBackend {
	return &LocalBackend{table: table}
}

func (b *LocalBackend) Snapshot() server.Update {
	return b.table.Snapshot()
}

func (b *LocalBackend) Apply(_ context.Context, a game.Action) (server.Update, error) {
	return b.table.Submit(b.table.Snapshot().Version, a)
}

func (b *LocalBackend) Updates() <-chan server.Update {
	return nil
}

// RemoteBackend drives a table on a pokertable server
type RemoteBackend struct {
	client *client.Client
}

// NewRemoteBackend wraps a connected client
func NewRemoteBackend(c *client.Client) *RemoteBackend {
	return &RemoteBackend{client: c}
}

func (b *RemoteBackend) Snapshot() server.Update {
	return b.client.Snapshot()
}

func (b *RemoteBackend) Apply(ctx context.Context, a game.Action) (server.Update, error) {
	return b.client.Submit(ctx, a)
}

func (b *RemoteBackend) Updates() <-chan server.Update {
	return b.client.Updates()
}
