package model

// SessionProfile is the persisted "current user" blob. Its presence is the
// only signal that a session is logged in.
type SessionProfile struct {
	ID          int    `json:"id"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}
