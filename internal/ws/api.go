// Exposes the live websocket channel of Argus and drives the per-connection
// message loop: upgrade, authentication handshake, keepalive and teardown.

package ws

import (
	"Argus/internal/auth"
	"Argus/internal/entity"
	"Argus/pkg/log"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Config carries the tunables of the live channel.
type Config struct {
	// A connection with no valid authentication frame within this period is closed.
	AuthGracePeriod time.Duration
	// A write which cannot complete within this period counts as a failed send.
	WriteTimeout time.Duration
	// The peer has to answer keepalive pings within this period.
	PongTimeout time.Duration
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware on the rest of the
	// API, the dashboard connects from a separate origin in every deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Registers the live channel handler onto the gin server.
// verifier may be nil, in which case the client-supplied identity is trusted (demo mode).
func APIHandlers(router *gin.Engine, registry *Registry, verifier auth.Verifier, wsRepo Repository, config Config, logger log.Logger) {
	router.GET("/api/ws", wshandler(registry, verifier, wsRepo, config, logger))
}

// wshandler owns one connection-handling flow from upgrade to teardown.
func wshandler(registry *Registry, verifier auth.Verifier, wsRepo Repository, config Config, logger log.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		socket, uperr := upgrader.Upgrade(gctx.Writer, gctx.Request, nil)
		if uperr != nil {
			// Upgrade already wrote the HTTP error response
			logger.WithCtx(gctx).Error().Err(uperr).Msg("Websocket upgrade failed")
			return
		}

		conn := NewConnection(socket, config.WriteTimeout, logger)
		registry.Register(conn)
		conn.StartWriter()

		// Reap connections which never authenticate, prevents unbounded
		// accumulation of unauthenticated handles.
		grace := time.AfterFunc(config.AuthGracePeriod, func() {
			if _, authed := registry.UserOf(conn); !authed {
				logger.Warn().Msgf("Closing connection %s, no authentication within grace period", conn.ID())
				conn.Close()
			}
		})

		defer func() {
			grace.Stop()
			userID, authed := registry.UserOf(conn)
			registry.Unregister(conn)
			conn.Close()
			if authed && len(registry.ConnectionsFor(userID)) == 0 {
				// Last live connection of this user is gone
				go wsRepo.RemoveClient(context.Background(), logger, userID)
			}
		}()

		socket.SetReadLimit(1024)
		socket.SetReadDeadline(time.Now().Add(config.PongTimeout))
		socket.SetPongHandler(func(string) error {
			socket.SetReadDeadline(time.Now().Add(config.PongTimeout))
			return nil
		})

		for {
			_, raw, rerr := socket.ReadMessage()
			if rerr != nil {
				// Transport closed or peer timed out
				return
			}
			var frame entity.AuthFrame
			if jsonerr := json.Unmarshal(raw, &frame); jsonerr != nil {
				logger.WithCtx(gctx).Warn().Err(jsonerr).Msgf("Malformed frame on connection %s", conn.ID())
				continue
			}
			if frame.Type != entity.FrameAuthenticate {
				continue
			}
			if authenticate(gctx, registry, verifier, wsRepo, conn, frame, logger) {
				grace.Stop()
			}
		}
	}
}

// authenticate binds the connection to the identity carried by the frame and
// acknowledges the result to the peer. Returns true on success.
func authenticate(ctx context.Context, registry *Registry, verifier auth.Verifier, wsRepo Repository, conn *Connection, frame entity.AuthFrame, logger log.Logger) bool {
	userID := frame.UserID
	if verifier != nil {
		verifiedID, valerr := verifier.Verify(ctx, frame.Token)
		if valerr != nil {
			logger.WithCtx(ctx).Warn().Err(valerr).Msgf("Token verification failed on connection %s", conn.ID())
			sendFrame(conn, entity.AckFrame{Type: entity.FrameAuthFailed, Message: "Authentication failed"})
			return false
		}
		userID = verifiedID
	}
	if userID == "" {
		sendFrame(conn, entity.AckFrame{Type: entity.FrameAuthFailed, Message: "Authentication failed"})
		return false
	}

	prevID, wasAuthed := registry.UserOf(conn)
	registry.Authenticate(conn, userID)
	if wasAuthed && prevID != userID && len(registry.ConnectionsFor(prevID)) == 0 {
		go wsRepo.RemoveClient(context.Background(), logger, prevID)
	}
	go wsRepo.AddClient(context.Background(), logger, userID)

	sendFrame(conn, entity.AckFrame{Type: entity.FrameAuthed, Message: "Successfully authenticated"})
	return true
}

func sendFrame(conn *Connection, frame entity.AckFrame) {
	payload, jsonerr := json.Marshal(frame)
	if jsonerr != nil {
		return
	}
	conn.Send(payload)
}
