package model

import "time"

// LoginEvent records one successful dashboard login.
type LoginEvent struct {
	UserID    int       `json:"user_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	IP        string    `json:"ip"`
	At        time.Time `json:"at"`
}
