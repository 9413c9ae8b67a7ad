package models

import "time"

// AcquisitionKind distinguishes contract purchases from sales.
type AcquisitionKind string

const (
	AcquisitionPurchase AcquisitionKind = "purchase"
	AcquisitionSale     AcquisitionKind = "sale"
)

// AcquisitionStatus tracks the contract lifecycle.
type AcquisitionStatus string

const (
	AcquisitionAcquired AcquisitionStatus = "acquired"
	AcquisitionSold     AcquisitionStatus = "sold"
)

// EndDateFinalized is the sentinel stored instead of a real end date
// whenever a contract is saved through the sale path.
const EndDateFinalized = "finalized"

// Acquisition represents an artist contract transaction. Dates are kept
// as ISO-8601 strings because EndDate must also be able to hold the
// EndDateFinalized sentinel.
type Acquisition struct {
	ID                        string            `db:"id" json:"id"`
	ArtistName                string            `db:"artist_name" json:"artist_name"`
	Kind                      AcquisitionKind   `db:"kind" json:"kind"`
	StartDate                 string            `db:"start_date" json:"start_date"`
	EndDate                   string            `db:"end_date" json:"end_date"`
	Amount                    float64           `db:"amount" json:"amount"`
	Terms                     string            `db:"terms" json:"terms"`
	ContractAttachmentID      *string           `db:"contract_attachment_id" json:"contract_attachment_id,omitempty"`
	SaleAgreementAttachmentID *string           `db:"sale_agreement_attachment_id" json:"sale_agreement_attachment_id,omitempty"`
	Status                    AcquisitionStatus `db:"status" json:"status"`
	CreatedAt                 time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time         `db:"updated_at" json:"updated_at"`
}

// AcquisitionFilter encapsulates allowed search parameters for listing
// acquisitions. Search matches the artist name.
type AcquisitionFilter struct {
	Status    *AcquisitionStatus
	Kind      *AcquisitionKind
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// MerchItem is a merchandise line nested under an acquisition.
type MerchItem struct {
	ID                string    `db:"id" json:"id"`
	AcquisitionID     string    `db:"acquisition_id" json:"acquisition_id"`
	Name              string    `db:"name" json:"name"`
	Price             float64   `db:"price" json:"price"`
	Stock             int       `db:"stock" json:"stock"`
	UnitsSold         int       `db:"units_sold" json:"units_sold"`
	PhotoAttachmentID *string   `db:"photo_attachment_id" json:"photo_attachment_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
