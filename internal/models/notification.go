package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"usuarioRef"`
	Message   string    `json:"mensaje"`
	CreatedAt time.Time `json:"fecha"`
	Read      bool      `json:"leida"`
}
