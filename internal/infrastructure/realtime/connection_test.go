package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialPair returns a server-side Connection and the client socket talking to it.
func dialPair(t *testing.T, opts ConnectionOptions) (*Connection, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	ready := make(chan *Connection, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ready <- NewConnection(9, ws, opts)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case conn := <-ready:
		return conn, client
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the socket")
		return nil, nil
	}
}

func TestConnection_SendDeliversInOrder(t *testing.T) {
	conn, client := dialPair(t, ConnectionOptions{})
	conn.Start()
	defer conn.Close(websocket.CloseNormalClosure, "done")

	require.NoError(t, conn.Send([]byte("one")))
	require.NoError(t, conn.Send([]byte("two")))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, first, err := client.ReadMessage()
	require.NoError(t, err)
	_, second, err := client.ReadMessage()
	require.NoError(t, err)

	assert.Equal(t, "one", string(first))
	assert.Equal(t, "two", string(second))
}

func TestConnection_CloseIsIdempotent(t *testing.T) {
	conn, client := dialPair(t, ConnectionOptions{})
	conn.Start()

	conn.Close(CloseSessionReplaced, "session replaced")
	conn.Close(websocket.CloseNormalClosure, "again")

	select {
	case <-conn.Done():
	default:
		t.Fatal("Done should be closed")
	}
	assert.ErrorIs(t, conn.Send([]byte("late")), ErrConnectionClosed)

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, CloseSessionReplaced), "got %v", err)
}

func TestConnection_FullBufferClosesConnection(t *testing.T) {
	conn, _ := dialPair(t, ConnectionOptions{SendBuffer: 1})
	// write loop not started, so the buffer never drains

	require.NoError(t, conn.Send([]byte("fits")))
	assert.ErrorIs(t, conn.Send([]byte("overflow")), ErrBufferExceeded)
	assert.ErrorIs(t, conn.Send([]byte("after")), ErrConnectionClosed)
}

func TestConnection_SendAfterCloseNeverSucceeds(t *testing.T) {
	conn, _ := dialPair(t, ConnectionOptions{SendBuffer: 256})
	conn.Close(websocket.CloseNormalClosure, "done")

	// the buffer has room, so only the closed state can refuse the payload
	for i := 0; i < 100; i++ {
		require.ErrorIs(t, conn.Send([]byte("late")), ErrConnectionClosed)
	}
}

// stuckConnection returns a started Connection whose writer is blocked on a
// peer that never reads, with the send buffer already full.
func stuckConnection(t *testing.T, writeWait time.Duration) *Connection {
	t.Helper()
	conn, _ := dialPair(t, ConnectionOptions{SendBuffer: 2, WriteWait: writeWait})
	conn.Start()
	t.Cleanup(func() { conn.Close(websocket.CloseNormalClosure, "") })

	// larger than loopback socket buffers, so the first write cannot finish
	big := make([]byte, 32<<20)
	require.NoError(t, conn.Send(big))
	require.Eventually(t, func() bool { return len(conn.send) == 0 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Send(big))
	require.NoError(t, conn.Send(big))
	return conn
}

func TestConnection_OverflowDoesNotWaitForStuckWriter(t *testing.T) {
	conn := stuckConnection(t, 3*time.Second)

	start := time.Now()
	err := conn.Send([]byte("overflow"))
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrBufferExceeded)
	assert.Less(t, elapsed, 500*time.Millisecond)

	select {
	case <-conn.Released():
	case <-time.After(5 * time.Second):
		t.Fatal("socket was never released")
	}
}

func TestRegistry_SlowPeerDoesNotDelayOthers(t *testing.T) {
	r, _ := newTestRegistry()
	slow := stuckConnection(t, 3*time.Second)
	r.Register(0, slow)

	healthy := make([]*fakeConn, 10)
	for i := range healthy {
		healthy[i] = newFakeConn("healthy")
		r.Register(int64(i+1), healthy[i])
	}

	start := time.Now()
	delivered := r.Broadcast([]byte("hello"))
	elapsed := time.Since(start)

	assert.Equal(t, len(healthy), delivered)
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.False(t, r.Online(0))
	for _, c := range healthy {
		assert.Equal(t, []string{"hello"}, c.received())
	}
}

func TestRegistry_ShutdownClosesSlowPeersInParallel(t *testing.T) {
	r, _ := newTestRegistry()
	for i := int64(1); i <= 3; i++ {
		r.Register(i, stuckConnection(t, time.Second))
	}

	start := time.Now()
	r.Shutdown(websocket.CloseGoingAway, "server shutdown")

	// three stuck peers, one write timeout
	assert.Less(t, time.Since(start), 2500*time.Millisecond)
}
