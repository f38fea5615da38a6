package model

import "time"

// Comment is a timestamped free-text note attached to exactly one document.
// User is a free-text author label, not a reference to a User record.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	User       string    `json:"user"`
	CreatedAt  time.Time `json:"createdAt"`
	DocumentID string    `json:"documentId"`
}
