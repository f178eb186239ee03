package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	ProfilePic   string    `json:"profilePic"`
	Verified     bool      `json:"verified"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitize strips the password hash before the user leaves the service layer.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}
