package models

import "time"

// Activity log actions recorded by the handlers.
const (
	ActionSignup        = "SIGNUP"
	ActionLogin         = "LOGIN"
	ActionLogout        = "LOGOUT"
	ActionUploadMeme    = "UPLOAD_MEME"
	ActionUpdatePrivacy = "UPDATE_PRIVACY"
	ActionDeleteMeme    = "DELETE_MEME"
)

// ActivityLog is an append-only audit record. It is written on a best-effort
// basis and never read back by the request handlers.
type ActivityLog struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}
