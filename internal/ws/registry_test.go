// Connection registry tests in Argus.

package ws

import (
	"Argus/pkg/log"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeConn is a minimal sender used to exercise registry and dispatcher logic
// without a live websocket.
type fakeConn struct {
	id       string
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string {
	return f.id
}

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("send failed on %s", f.id)
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte{}, f.payloads...)
}

func newTestRegistry() *Registry {
	return NewRegistry(log.New("test"))
}

func TestRegistryAuthenticateBindsConnection(t *testing.T) {
	registry := newTestRegistry()
	conn := newFakeConn("c1")

	registry.Register(conn)
	_, authed := registry.UserOf(conn)
	assert.False(t, authed)
	assert.Empty(t, registry.ConnectionsFor("u1"))

	registry.Authenticate(conn, "u1")
	userID, authed := registry.UserOf(conn)
	assert.True(t, authed)
	assert.Equal(t, "u1", userID)
	assert.Len(t, registry.ConnectionsFor("u1"), 1)

	// Idempotent for the same identity
	registry.Authenticate(conn, "u1")
	assert.Len(t, registry.ConnectionsFor("u1"), 1)
}

func TestRegistryAuthenticateEmptyUserIDIsNoop(t *testing.T) {
	registry := newTestRegistry()
	conn := newFakeConn("c1")

	registry.Register(conn)
	registry.Authenticate(conn, "")

	_, authed := registry.UserOf(conn)
	assert.False(t, authed)
	assert.Empty(t, registry.AllConnections())
}

func TestRegistryRebindMovesConnectionBetweenSets(t *testing.T) {
	registry := newTestRegistry()
	conn := newFakeConn("c1")

	registry.Register(conn)
	registry.Authenticate(conn, "u1")
	registry.Authenticate(conn, "u2")

	// A connection is a member of at most one user's set
	assert.Empty(t, registry.ConnectionsFor("u1"))
	assert.Len(t, registry.ConnectionsFor("u2"), 1)
	userID, _ := registry.UserOf(conn)
	assert.Equal(t, "u2", userID)
}

func TestRegistryUnregisterPrunesEmptySet(t *testing.T) {
	registry := newTestRegistry()
	connA, connB := newFakeConn("cA"), newFakeConn("cB")

	registry.Register(connA)
	registry.Register(connB)
	registry.Authenticate(connA, "u1")
	registry.Authenticate(connB, "u1")
	assert.Len(t, registry.ConnectionsFor("u1"), 2)

	registry.Unregister(connA)
	assert.Len(t, registry.ConnectionsFor("u1"), 1)

	registry.Unregister(connB)
	assert.Empty(t, registry.ConnectionsFor("u1"))
	assert.Empty(t, registry.AllConnections())
}

func TestRegistryUnregisterIsIdempotent(t *testing.T) {
	registry := newTestRegistry()
	connA, connB := newFakeConn("cA"), newFakeConn("cB")

	registry.Register(connA)
	registry.Register(connB)
	registry.Authenticate(connA, "u1")
	registry.Authenticate(connB, "u1")

	registry.Unregister(connA)
	snapshot := registry.ConnectionsFor("u1")

	// Second call must leave the registry state unchanged
	registry.Unregister(connA)
	assert.Equal(t, snapshot, registry.ConnectionsFor("u1"))
	assert.Len(t, registry.ConnectionsFor("u1"), 1)
}

func TestRegistryConcurrentChurn(t *testing.T) {
	registry := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn := newFakeConn(fmt.Sprintf("c%d", n))
			registry.Register(conn)
			registry.Authenticate(conn, fmt.Sprintf("u%d", n%5))
			registry.ConnectionsFor(fmt.Sprintf("u%d", n%5))
			registry.AllConnections()
			registry.Unregister(conn)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, registry.AllConnections())
}
