package ws

// Message defines the structure for websocket feed messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Feed actions pushed to connected clients.
const (
	ActionMemeCreated        = "meme.created"
	ActionMemePrivacyChanged = "meme.privacy_changed"
)
