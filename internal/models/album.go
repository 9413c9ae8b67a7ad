package models

import "time"

// Album represents a catalog album.
type Album struct {
	ID                string    `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Artist            string    `db:"artist" json:"artist"`
	Year              int       `db:"year" json:"year"`
	Genre             string    `db:"genre" json:"genre"`
	CoverAttachmentID *string   `db:"cover_attachment_id" json:"cover_attachment_id,omitempty"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// AlbumFilter encapsulates allowed search parameters for listing albums.
// Search matches the title as a case-insensitive substring.
type AlbumFilter struct {
	Search    string
	Genre     string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
