package dto

import "github.com/discora/label-admin-api/internal/models"

// MerchStats aggregates the merchandising panel numbers for one acquisition.
type MerchStats struct {
	AcquisitionID  string      `json:"acquisition_id"`
	ItemCount      int         `json:"item_count"`
	TotalUnitsSold int         `json:"total_units_sold"`
	TotalRevenue   float64     `json:"total_revenue"`
	AvgRevenue     float64     `json:"avg_revenue_per_item"`
	BestSeller     *MerchPoint `json:"best_seller,omitempty"`
	Chart          MerchChart  `json:"chart"`
}

// MerchPoint names one item together with its sold units.
type MerchPoint struct {
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

// MerchChart carries the bar-chart series consumed by the dashboard.
type MerchChart struct {
	Labels    []string `json:"labels"`
	UnitsSold []int    `json:"units_sold"`
	Stock     []int    `json:"stock"`
}

// MerchImportError reports one rejected spreadsheet row.
type MerchImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// MerchImportReport summarizes a partial spreadsheet import: valid rows
// are persisted, bad rows are reported without aborting the batch.
type MerchImportReport struct {
	Imported int                `json:"imported"`
	Items    []models.MerchItem `json:"items"`
	Errors   []MerchImportError `json:"errors,omitempty"`
}
