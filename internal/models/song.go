package models

import "time"

// Song represents a single track in the catalog.
// Duration is stored the way it is displayed, e.g. "3:45".
type Song struct {
	ID                string    `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Album             string    `db:"album" json:"album"`
	Duration          string    `db:"duration" json:"duration"`
	Year              int       `db:"year" json:"year"`
	Genre             string    `db:"genre" json:"genre"`
	PhotoAttachmentID *string   `db:"photo_attachment_id" json:"photo_attachment_id,omitempty"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// SongFilter encapsulates allowed search parameters for listing songs.
type SongFilter struct {
	Search    string
	Genre     string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
