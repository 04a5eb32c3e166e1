// Dispatcher fans one message out to a set of independently failing recipients.
// It owns no state of its own, recipients are read from the registry snapshot.

package ws

import (
	"Argus/pkg/log"
	"context"
	"encoding/json"
)

// Dispatcher serializes a message once and writes it to every recipient
// connection. A failed write on one connection never aborts delivery to the
// remaining ones and is never surfaced to the caller.
type Dispatcher struct {
	registry *Registry
	logger   log.Logger
}

// NewDispatcher returns a dispatcher fanning out over the given registry.
func NewDispatcher(registry *Registry, logger log.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// SendToUser delivers the message to every live connection of userID.
// A user with zero connections makes this a no-op.
func (d *Dispatcher) SendToUser(ctx context.Context, userID string, message interface{}) {
	payload, jsonerr := json.Marshal(message)
	if jsonerr != nil {
		d.logger.WithCtx(ctx).Error().Err(jsonerr).Msg("Couldn't serialize message in Dispatcher.SendToUser")
		return
	}
	d.deliver(ctx, d.registry.ConnectionsFor(userID), payload)
}

// SendToAll delivers the message to every authenticated connection.
func (d *Dispatcher) SendToAll(ctx context.Context, message interface{}) {
	payload, jsonerr := json.Marshal(message)
	if jsonerr != nil {
		d.logger.WithCtx(ctx).Error().Err(jsonerr).Msg("Couldn't serialize message in Dispatcher.SendToAll")
		return
	}
	d.deliver(ctx, d.registry.AllConnections(), payload)
}

// deliver writes one identical payload to each recipient, isolating failures.
// Failed recipients are left for the transport-close path to reap, the
// registry is never mutated while iterating its snapshot.
func (d *Dispatcher) deliver(ctx context.Context, recipients []sender, payload []byte) {
	for _, conn := range recipients {
		if senderr := conn.Send(payload); senderr != nil {
			d.logger.WithCtx(ctx).Warn().Err(senderr).Msgf("Dropped push to connection %s", conn.ID())
		}
	}
}
