package models

import (
	"encoding/json"
	"time"
)

// Post represents a blog post authored by a user.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        *string   `json:"slug,omitempty"`
	Description string    `json:"description"`
	Photo       *string   `json:"photo,omitempty"`
	Categories  []string  `json:"categories"` // Category names, upserted on write
	Tags        []string  `json:"tags,omitempty"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// TagsJSON is the database representation of Tags.
	TagsJSON *string `json:"-"`
}

// PrepareForDB serializes the tag list into its JSON column form.
func (p *Post) PrepareForDB() error {
	if len(p.Tags) == 0 {
		p.TagsJSON = nil
		return nil
	}
	b, err := json.Marshal(p.Tags)
	if err != nil {
		return err
	}
	s := string(b)
	p.TagsJSON = &s
	return nil
}

// LoadFromDB deserializes the JSON tag column back into the tag list.
func (p *Post) LoadFromDB() error {
	p.Tags = nil
	if p.TagsJSON == nil || *p.TagsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(*p.TagsJSON), &p.Tags)
}
