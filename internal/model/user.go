package model

import "time"

// User represents a dashboard account.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile projects the account onto the session blob shape.
func (u *User) Profile() SessionProfile {
	return SessionProfile{
		ID:          u.ID,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}

// LoginRequest is the payload for dashboard authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string         `json:"token"`
	Profile   SessionProfile `json:"profile"`
	SessionID string         `json:"-"`
}

// CreateUserRequest is the payload for creating a dashboard account.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	DisplayName string `json:"display_name" binding:"required,min=2,max=120"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	Role        Role   `json:"role" binding:"required,role"`
}
