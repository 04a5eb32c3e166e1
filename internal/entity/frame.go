// Structure of the live-channel wire frames in Argus.

package entity

// Frame types exchanged over the live channel.
// Server to client pushes reuse the event types defined in event.go.
const (
	FrameAuthenticate = "authenticate"
	FrameAuthed       = "authenticated"
	FrameAuthFailed   = "authentication_failed"
)

// AuthFrame is the first message a client is expected to send after connecting.
type AuthFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Token  string `json:"token,omitempty"`
}

// AckFrame is the server's reply to an AuthFrame.
type AckFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
