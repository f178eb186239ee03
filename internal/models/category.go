package models

import "time"

// Category represents a post category. Names are unique; posts reference
// categories through a join table.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
