package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Registry maps an online user to exactly one live connection.
//
// The mutex guards only the maps; pushes run after it is released so a slow
// peer never blocks delivery to other users. Handles are compared by
// identity, so Conn implementations must be comparable (pointer types).
// The Registry never closes a connection it displaces; that belongs to
// whoever accepted the transport.
type Registry struct {
	mu     sync.RWMutex
	conns  map[int64]Conn // userID -> current handle
	owners map[Conn]int64 // handle -> userID, only for current handles

	logger  *zap.Logger
	metrics *Metrics
}

// NewRegistry constructs an empty Registry. metrics may be nil.
func NewRegistry(logger *zap.Logger, metrics *Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics("", nil)
	}
	return &Registry{
		conns:   make(map[int64]Conn),
		owners:  make(map[Conn]int64),
		logger:  logger.Named("registry"),
		metrics: metrics,
	}
}

// Register stores conn as the current handle for userID, replacing any prior
// handle. The replaced handle, if any, is returned so its owner can decide
// what to do with it; it no longer receives pushes.
func (r *Registry) Register(userID int64, conn Conn) (displaced Conn) {
	if conn == nil {
		return nil
	}

	r.mu.Lock()
	if prev, ok := r.conns[userID]; ok && prev != conn {
		delete(r.owners, prev)
		displaced = prev
	}
	// a handle is bound to one user at a time
	if oldUser, ok := r.owners[conn]; ok && oldUser != userID {
		delete(r.conns, oldUser)
	}
	r.conns[userID] = conn
	r.owners[conn] = userID
	online := len(r.conns)
	r.mu.Unlock()

	r.metrics.Connections.Set(float64(online))
	r.metrics.Registrations.WithLabelValues("register").Inc()
	if displaced != nil {
		r.metrics.Registrations.WithLabelValues("displace").Inc()
		r.logger.Info("Connection displaced", zap.Int64("userID", userID))
	}
	return displaced
}

// Unregister removes the entry whose stored handle is conn. A handle that was
// already displaced, or never registered, is ignored.
func (r *Registry) Unregister(conn Conn) bool {
	if conn == nil {
		return false
	}

	r.mu.Lock()
	userID, ok := r.owners[conn]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.owners, conn)
	if r.conns[userID] == conn {
		delete(r.conns, userID)
	}
	online := len(r.conns)
	r.mu.Unlock()

	r.metrics.Connections.Set(float64(online))
	r.metrics.Registrations.WithLabelValues("unregister").Inc()
	return true
}

// Unicast pushes payload to userID's connection if one is registered.
// Delivery is best effort: no acknowledgement, no retry. A handle that fails
// to accept the payload is unregistered.
func (r *Registry) Unicast(userID int64, payload []byte) bool {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	if !ok {
		r.metrics.Pushes.WithLabelValues(kindUnicast, resultOffline).Inc()
		return false
	}
	return r.push(kindUnicast, userID, conn, payload)
}

// Broadcast pushes payload to every registered connection and returns the
// number that accepted it.
func (r *Registry) Broadcast(payload []byte) int {
	return r.fanout(payload, nil)
}

// BroadcastExcept is Broadcast skipping userID.
func (r *Registry) BroadcastExcept(payload []byte, userID int64) int {
	return r.fanout(payload, &userID)
}

// Online reports whether userID has a registered connection.
func (r *Registry) Online(userID int64) bool {
	r.mu.RLock()
	_, ok := r.conns[userID]
	r.mu.RUnlock()
	return ok
}

// Count returns the number of registered users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Shutdown closes every registered handle that supports closing and waits
// for their sockets to be released. Closes run in parallel, so the wait is
// bounded by one write timeout. Entries are left in place; each connection's
// own teardown unregisters it.
func (r *Registry) Shutdown(code int, reason string) {
	r.mu.RLock()
	handles := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		handles = append(handles, conn)
	}
	r.mu.RUnlock()

	var pending []<-chan struct{}
	for _, conn := range handles {
		if c, ok := conn.(interface{ Close(int, string) }); ok {
			c.Close(code, reason)
		}
		if c, ok := conn.(interface{ Released() <-chan struct{} }); ok {
			pending = append(pending, c.Released())
		}
	}
	for _, done := range pending {
		<-done
	}
	r.logger.Info("Registry shut down", zap.Int("connections", len(handles)))
}

type target struct {
	userID int64
	conn   Conn
}

func (r *Registry) fanout(payload []byte, skip *int64) int {
	r.mu.RLock()
	targets := make([]target, 0, len(r.conns))
	for userID, conn := range r.conns {
		if skip != nil && userID == *skip {
			continue
		}
		targets = append(targets, target{userID: userID, conn: conn})
	}
	r.mu.RUnlock()

	delivered := 0
	for _, t := range targets {
		if r.push(kindBroadcast, t.userID, t.conn, payload) {
			delivered++
		}
	}
	return delivered
}

func (r *Registry) push(kind string, userID int64, conn Conn, payload []byte) bool {
	if err := conn.Send(payload); err != nil {
		r.metrics.Pushes.WithLabelValues(kind, resultFailed).Inc()
		r.Unregister(conn)
		r.logger.Warn("Push failed, dropped stale connection",
			zap.String("kind", kind),
			zap.Int64("userID", userID),
			zap.Error(err),
		)
		return false
	}
	r.metrics.Pushes.WithLabelValues(kind, resultDelivered).Inc()
	return true
}
