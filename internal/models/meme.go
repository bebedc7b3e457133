package models

import "time"

// Privacy values a meme can carry.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// ValidPrivacy reports whether s is one of the two recognized privacy values.
func ValidPrivacy(s string) bool {
	return s == PrivacyPublic || s == PrivacyPrivate
}

// Meme is a user-owned media post.
type Meme struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	Description   string    `json:"description"`
	Privacy       string    `json:"privacy"`
	S3Key         string    `json:"s3Key"`
	FileURL       string    `json:"fileUrl,omitempty"`
	FileType      string    `json:"fileType"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	CreatedAt     time.Time `json:"createdAt"`
	User          UserRef   `json:"user"`
}

// MemeStats are aggregate counts over a single owner's memes.
type MemeStats struct {
	Total   int `json:"total"`
	Public  int `json:"public"`
	Private int `json:"private"`
}
