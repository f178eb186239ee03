package models

import "time"

// ContactMessage represents a contact form submission.
type ContactMessage struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}
