package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/server"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func startServer(t *testing.T) (*httptest.Server, *server.Table) {
	t.Helper()
	table := server.NewTable(game.NewTestTable(), server.TableOptions{}, testLogger())
	ts := httptest.NewServer(server.NewServer(table, testLogger()).Handler())
	t.Cleanup(ts.Close)
	return ts, table
}

func dial(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, ts.URL, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDialReceivesTable(t *testing.T) {
	t.Parallel()

	ts, _ := startServer(t)
	c := dial(t, ts)

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Version)
	require.Len(t, snap.State.Players, 3)
	assert.Equal(t, "P0", snap.State.Players[0].Name)
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts, table := startServer(t)
	c := dial(t, ts)

	update, err := c.Submit(ctx, game.StartHand{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), update.Version)
	assert.Equal(t, game.PhaseHand, update.State.Phase)
	assert.Equal(t, uint64(2), c.Snapshot().Version)

	seat := update.State.ActionSeat
	update, err = c.Submit(ctx, game.PlayerAct{Seat: seat, Move: game.MoveFold})
	require.NoError(t, err)
	assert.Equal(t, game.StatusFolded, update.State.Players[seat].Status)
	assert.Equal(t, table.Snapshot().Version, update.Version)

	_, err = c.Submit(ctx, game.PlayerAct{Seat: seat, Move: game.MoveCheck})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.ErrorIs(t, err, server.ErrRejected)
	assert.Contains(t, remote.Message, "turn")
}

func TestUpdatesFromOtherClients(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts, _ := startServer(t)
	actor := dial(t, ts)
	watcher := dial(t, ts)

	_, err := actor.Submit(ctx, game.StartHand{})
	require.NoError(t, err)

	select {
	case u := <-watcher.Updates():
		assert.Equal(t, uint64(2), u.Version)
		assert.Equal(t, game.TypeStartHand, u.Action)
	case <-ctx.Done():
		t.Fatal("watcher never saw the hand start")
	}

	require.Eventually(t, func() bool {
		return watcher.Snapshot().Version == 2
	}, time.Second, 10*time.Millisecond)
}

func TestAdoptAndSync(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ts, table := startServer(t)
	c := dial(t, ts)

	replacement := game.NewTestTable(game.WithStacks(80, 90), game.WithSession())
	update, err := c.Adopt(ctx, replacement)
	require.NoError(t, err)
	assert.Len(t, update.State.Players, 2)
	assert.Equal(t, "test-session", table.Snapshot().State.Session.ID)

	synced, err := c.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, update.Version, synced.Version)
	assert.Equal(t, 90, synced.State.Players[1].Stack)
}

func TestClose(t *testing.T) {
	t.Parallel()

	ts, _ := startServer(t)
	c := dial(t, ts)
	require.NoError(t, c.Close())

	_, err := c.Submit(context.Background(), game.StartHand{})
	assert.ErrorIs(t, err, ErrClosed)

	for range c.Updates() {
	}
}

func TestRemoteErrorMatchesSentinels(t *testing.T) {
	t.Parallel()

	stale := &RemoteError{Code: server.CodeStaleVersion, Message: "stale"}
	assert.True(t, errors.Is(stale, server.ErrStaleVersion))
	assert.False(t, errors.Is(stale, server.ErrRejected))

	rejected := &RemoteError{Code: server.CodeRejected, Message: "no"}
	assert.True(t, errors.Is(rejected, server.ErrRejected))

	other := &RemoteError{Code: server.CodeInvalidMessage, Message: "bad"}
	assert.False(t, errors.Is(other, server.ErrStaleVersion))
}

func TestDialFailure(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "http://127.0.0.1:1", testLogger())
	assert.ErrorContains(t, err, "failed to connect")

	_, err = Dial(ctx, "://bad", testLogger())
	assert.ErrorContains(t, err, "invalid server URL")
}

func TestDialClosesConnectionThatEndsEarly(t *testing.T) {
	t.Parallel()

	closed := make(chan error, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var upgrader websocket.Upgrader
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			closed <- err
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = conn.ReadMessage()
		closed <- err
	}))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, ts.URL, testLogger())
	assert.Nil(t, c)
	assert.EqualError(t, err, "connection closed before the first state")

	select {
	case err := <-closed:
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "server saw %v", err)
	case <-ctx.Done():
		t.Fatal("server never saw the connection end")
	}
}
