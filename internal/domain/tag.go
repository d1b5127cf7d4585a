package domain

import "github.com/google/uuid"

// Tag is a reusable label attached to photographs through the photo_tags
// join table. Tags are proper rows, not delimited text, so exact matching
// and counting stay reliable.
type Tag struct {
	ID   uuid.UUID `json:"id" db:"tag_id"`
	Name string    `json:"name" db:"name"`
}
