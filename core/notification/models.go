package notification

import "time"

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// UnreadList is the shape returned to the notification bell: the unread
// notifications plus their count.
type UnreadList struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
}
