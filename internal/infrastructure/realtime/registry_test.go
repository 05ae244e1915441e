package realtime

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu       sync.Mutex
	name     string
	payloads [][]byte
	fail     error
	closed   []int
}

func newFakeConn(name string) *fakeConn { return &fakeConn{name: name} }

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeConn) Close(code int, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, code)
}

func (f *fakeConn) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.payloads))
	for _, p := range f.payloads {
		out = append(out, string(p))
	}
	return out
}

func newTestRegistry() (*Registry, *Metrics) {
	m := NewMetrics("test", prometheus.NewRegistry())
	return NewRegistry(zap.NewNop(), m), m
}

func TestRegistry_RegisterAndUnicast(t *testing.T) {
	t.Run("Should deliver to the registered connection", func(t *testing.T) {
		r, _ := newTestRegistry()
		c := newFakeConn("a")

		assert.Nil(t, r.Register(1, c))
		assert.True(t, r.Unicast(1, []byte("hello")))
		assert.Equal(t, []string{"hello"}, c.received())
	})

	t.Run("Should no-op for an unregistered user", func(t *testing.T) {
		r, m := newTestRegistry()

		assert.False(t, r.Unicast(42, []byte("nobody")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Pushes.WithLabelValues(kindUnicast, resultOffline)))
	})

	t.Run("Should replace a prior connection and return it without closing it", func(t *testing.T) {
		r, _ := newTestRegistry()
		first := newFakeConn("first")
		second := newFakeConn("second")

		r.Register(1, first)
		displaced := r.Register(1, second)

		assert.Same(t, first, displaced)
		assert.Empty(t, first.closed)
		assert.Equal(t, 1, r.Count())

		r.Unicast(1, []byte("ping"))
		assert.Empty(t, first.received())
		assert.Equal(t, []string{"ping"}, second.received())
	})

	t.Run("Should treat re-registering the same handle as a no-op displacement", func(t *testing.T) {
		r, _ := newTestRegistry()
		c := newFakeConn("a")

		r.Register(1, c)
		assert.Nil(t, r.Register(1, c))
		assert.Equal(t, 1, r.Count())
	})

	t.Run("Should move a handle registered under another user", func(t *testing.T) {
		r, _ := newTestRegistry()
		c := newFakeConn("a")

		r.Register(1, c)
		r.Register(2, c)

		assert.False(t, r.Online(1))
		assert.True(t, r.Online(2))
		assert.Equal(t, 1, r.Count())
	})
}

func TestRegistry_Unregister(t *testing.T) {
	t.Run("Should remove by handle identity", func(t *testing.T) {
		r, m := newTestRegistry()
		c := newFakeConn("a")
		r.Register(7, c)

		assert.True(t, r.Unregister(c))
		assert.False(t, r.Online(7))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.Connections))
	})

	t.Run("Should ignore a displaced handle", func(t *testing.T) {
		r, _ := newTestRegistry()
		old := newFakeConn("old")
		current := newFakeConn("current")
		r.Register(7, old)
		r.Register(7, current)

		assert.False(t, r.Unregister(old))
		assert.True(t, r.Online(7))
		assert.True(t, r.Unicast(7, []byte("still here")))
		assert.Equal(t, []string{"still here"}, current.received())
	})

	t.Run("Should tolerate unknown and repeated handles", func(t *testing.T) {
		r, _ := newTestRegistry()
		c := newFakeConn("a")

		assert.False(t, r.Unregister(c))
		assert.False(t, r.Unregister(nil))
		r.Register(1, c)
		assert.True(t, r.Unregister(c))
		assert.False(t, r.Unregister(c))
	})
}

func TestRegistry_FailedPushDropsHandle(t *testing.T) {
	r, m := newTestRegistry()
	broken := newFakeConn("broken")
	broken.fail = errors.New("socket closed")
	r.Register(3, broken)

	assert.False(t, r.Unicast(3, []byte("x")))
	assert.False(t, r.Online(3))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Pushes.WithLabelValues(kindUnicast, resultFailed)))
}

func TestRegistry_Broadcast(t *testing.T) {
	t.Run("Should reach every connection even when one fails", func(t *testing.T) {
		r, _ := newTestRegistry()
		a, b, c := newFakeConn("a"), newFakeConn("b"), newFakeConn("c")
		b.fail = errors.New("broken pipe")
		r.Register(1, a)
		r.Register(2, b)
		r.Register(3, c)

		delivered := r.Broadcast([]byte("all"))

		assert.Equal(t, 2, delivered)
		assert.Equal(t, []string{"all"}, a.received())
		assert.Equal(t, []string{"all"}, c.received())
		assert.False(t, r.Online(2))
	})

	t.Run("Should skip the excluded user", func(t *testing.T) {
		r, _ := newTestRegistry()
		a, b := newFakeConn("a"), newFakeConn("b")
		r.Register(1, a)
		r.Register(2, b)

		delivered := r.BroadcastExcept([]byte("others"), 1)

		assert.Equal(t, 1, delivered)
		assert.Empty(t, a.received())
		assert.Equal(t, []string{"others"}, b.received())
	})
}

func TestRegistry_Shutdown(t *testing.T) {
	r, _ := newTestRegistry()
	a, b := newFakeConn("a"), newFakeConn("b")
	r.Register(1, a)
	r.Register(2, b)

	r.Shutdown(1001, "server shutdown")

	assert.Equal(t, []int{1001}, a.closed)
	assert.Equal(t, []int{1001}, b.closed)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r, _ := newTestRegistry()
	const users = 50

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c := newFakeConn(fmt.Sprintf("%d-%d", id, j))
				r.Register(id, c)
				r.Unicast(id, []byte("x"))
				r.BroadcastExcept([]byte("y"), id)
				if j%2 == 0 {
					r.Unregister(c)
				}
			}
		}(int64(i))
	}
	wg.Wait()

	require.LessOrEqual(t, r.Count(), users)
}
