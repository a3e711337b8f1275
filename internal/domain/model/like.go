package model

import "time"

// Like is the (user, photo) relation row. At most one row exists per pair.
type Like struct {
	UserID    string    `json:"user_id"`
	PhotoID   string    `json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
}
