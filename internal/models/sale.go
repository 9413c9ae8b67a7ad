package models

import "time"

// Sale represents a point-of-sale record for an album or song.
// Total is always recomputed server-side as Quantity * UnitPrice;
// client-submitted totals are ignored.
type Sale struct {
	ID        string    `db:"id" json:"id"`
	SaleDate  string    `db:"sale_date" json:"sale_date"`
	ItemLabel string    `db:"item_label" json:"item_label"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UnitPrice float64   `db:"unit_price" json:"unit_price"`
	Total     float64   `db:"total" json:"total"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SaleFilter encapsulates allowed search parameters for listing sales.
// Search matches the item label.
type SaleFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
