package models

import "time"

// Artist represents a performer on the label roster.
type Artist struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Genre             string    `db:"genre" json:"genre"`
	Country           string    `db:"country" json:"country"`
	Biography         string    `db:"biography" json:"biography"`
	PhotoAttachmentID *string   `db:"photo_attachment_id" json:"photo_attachment_id,omitempty"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ArtistFilter encapsulates allowed search parameters for listing artists.
type ArtistFilter struct {
	Search    string
	Genre     string
	Country   string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
