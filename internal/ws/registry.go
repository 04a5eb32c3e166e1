// Registry is the process-wide mapping from user identity to that user's live
// connections in Argus. Every mutation and read of the mapping goes through
// here, no other component touches the map directly.

package ws

import (
	"Argus/pkg/log"
	"sync"
)

// sender is the slice of Connection the registry and dispatcher rely on.
// Tests substitute failing implementations through it.
type sender interface {
	ID() string
	Send(payload []byte) error
}

// Registry owns the identity to connection-set mapping.
// A connection is a member of at most one user's set at a time and an emptied
// set is removed immediately, no empty-set entries persist.
type Registry struct {
	mu sync.RWMutex
	// connection handle -> bound userID, empty string while unauthenticated
	conns map[sender]string
	// userID -> set of that user's live connections
	users map[string]map[sender]struct{}

	logger log.Logger
}

// NewRegistry returns an empty connection registry.
func NewRegistry(logger log.Logger) *Registry {
	return &Registry{
		conns:  make(map[sender]string),
		users:  make(map[string]map[sender]struct{}),
		logger: logger,
	}
}

// Register adds a connection in unauthenticated state.
func (r *Registry) Register(conn sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[conn]; exists {
		return
	}
	r.conns[conn] = ""
	r.logger.Info().Msgf("Registered connection %s", conn.ID())
}

// Authenticate binds the connection to userID and inserts it into that user's set.
// Idempotent for the same identity, re-binding to a different identity first
// removes the connection from its prior set. An empty userID leaves the
// connection unauthenticated.
func (r *Registry) Authenticate(conn sender, userID string) {
	if userID == "" {
		r.logger.Warn().Msgf("Ignoring authentication with empty userID on connection %s", conn.ID())
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, exists := r.conns[conn]
	if !exists {
		// Unknown connection, most likely already reaped
		return
	}
	if prev == userID {
		return
	}
	if prev != "" {
		r.detachLocked(conn, prev)
	}
	set, ok := r.users[userID]
	if !ok {
		set = make(map[sender]struct{})
		r.users[userID] = set
	}
	set[conn] = struct{}{}
	r.conns[conn] = userID
	r.logger.Info().Msgf("Connection %s authenticated as user %s", conn.ID(), userID)
}

// Unregister removes the connection from whichever user set currently contains
// it. Safe to call multiple times.
func (r *Registry) Unregister(conn sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, exists := r.conns[conn]
	if !exists {
		return
	}
	if userID != "" {
		r.detachLocked(conn, userID)
	}
	delete(r.conns, conn)
	r.logger.Info().Msgf("Unregistered connection %s", conn.ID())
}

// UserOf returns the identity currently bound to the connection.
func (r *Registry) UserOf(conn sender) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, exists := r.conns[conn]
	if !exists || userID == "" {
		return "", false
	}
	return userID, true
}

// ConnectionsFor returns a read-only snapshot of the user's live connections.
func (r *Registry) ConnectionsFor(userID string) []sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.users[userID]
	if !ok {
		return nil
	}
	snapshot := make([]sender, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}

// AllConnections returns a read-only snapshot of every authenticated connection.
func (r *Registry) AllConnections() []sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := []sender{}
	for _, set := range r.users {
		for conn := range set {
			snapshot = append(snapshot, conn)
		}
	}
	return snapshot
}

// detachLocked removes the connection from the given user's set and prunes the
// set entry once it goes empty. Caller must hold the write lock.
func (r *Registry) detachLocked(conn sender, userID string) {
	set, ok := r.users[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.users, userID)
	}
}
