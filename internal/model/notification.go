package model

import "time"

// Notification is a directed message between a user and the shop staff.
// An empty SenderID means the message was emitted by the system or an admin
// action. Content is never edited; only the read and deleted flags change.
type Notification struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id,omitempty"`
	RecipientID string    `json:"recipient_id"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
}
