package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/discora/label-admin-api/internal/models"
)

// AcquisitionRepository manages artist contract transactions and their
// nested merchandise items.
type AcquisitionRepository struct {
	db *sqlx.DB
}

// NewAcquisitionRepository constructs an AcquisitionRepository.
func NewAcquisitionRepository(db *sqlx.DB) *AcquisitionRepository {
	return &AcquisitionRepository{db: db}
}

const acquisitionColumns = `id, artist_name, kind, start_date, end_date, amount, terms, contract_attachment_id, sale_agreement_attachment_id, status, created_at, updated_at`

// List returns acquisitions matching the provided filters. Search
// matches the artist name.
func (r *AcquisitionRepository) List(ctx context.Context, filter models.AcquisitionFilter) ([]models.Acquisition, int, error) {
	baseQuery := `FROM acquisitions WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, *filter.Kind)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(artist_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]bool{
		"artist_name": true,
		"start_date":  true,
		"amount":      true,
		"created_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", acquisitionColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var acquisitions []models.Acquisition
	if err := r.db.SelectContext(ctx, &acquisitions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list acquisitions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count acquisitions: %w", err)
	}

	return acquisitions, total, nil
}

// FindByID fetches an acquisition by its identifier.
func (r *AcquisitionRepository) FindByID(ctx context.Context, id string) (*models.Acquisition, error) {
	query := fmt.Sprintf(`SELECT %s FROM acquisitions WHERE id = $1 LIMIT 1`, acquisitionColumns)
	var acq models.Acquisition
	if err := r.db.GetContext(ctx, &acq, query, id); err != nil {
		return nil, err
	}
	return &acq, nil
}

// Create inserts a new acquisition record.
func (r *AcquisitionRepository) Create(ctx context.Context, acq *models.Acquisition) error {
	if acq.ID == "" {
		acq.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if acq.CreatedAt.IsZero() {
		acq.CreatedAt = now
	}
	acq.UpdatedAt = now
	const query = `INSERT INTO acquisitions (id, artist_name, kind, start_date, end_date, amount, terms, contract_attachment_id, sale_agreement_attachment_id, status, created_at, updated_at)
        VALUES (:id, :artist_name, :kind, :start_date, :end_date, :amount, :terms, :contract_attachment_id, :sale_agreement_attachment_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, acq); err != nil {
		return fmt.Errorf("create acquisition: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of an acquisition.
func (r *AcquisitionRepository) Update(ctx context.Context, acq *models.Acquisition) error {
	acq.UpdatedAt = time.Now().UTC()
	const query = `UPDATE acquisitions SET artist_name = :artist_name, kind = :kind, start_date = :start_date, end_date = :end_date, amount = :amount, terms = :terms, contract_attachment_id = :contract_attachment_id, sale_agreement_attachment_id = :sale_agreement_attachment_id, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, acq); err != nil {
		return fmt.Errorf("update acquisition: %w", err)
	}
	return nil
}

// ListMerchItems returns every merchandise line for an acquisition in
// insertion order.
func (r *AcquisitionRepository) ListMerchItems(ctx context.Context, acquisitionID string) ([]models.MerchItem, error) {
	const query = `SELECT id, acquisition_id, name, price, stock, units_sold, photo_attachment_id, created_at, updated_at FROM merch_items WHERE acquisition_id = $1 ORDER BY created_at ASC`
	var items []models.MerchItem
	if err := r.db.SelectContext(ctx, &items, query, acquisitionID); err != nil {
		return nil, fmt.Errorf("list merch items: %w", err)
	}
	return items, nil
}

// FindMerchItem fetches one merchandise line by id.
func (r *AcquisitionRepository) FindMerchItem(ctx context.Context, id string) (*models.MerchItem, error) {
	const query = `SELECT id, acquisition_id, name, price, stock, units_sold, photo_attachment_id, created_at, updated_at FROM merch_items WHERE id = $1 LIMIT 1`
	var item models.MerchItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateMerchItem inserts a merchandise line.
func (r *AcquisitionRepository) CreateMerchItem(ctx context.Context, item *models.MerchItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO merch_items (id, acquisition_id, name, price, stock, units_sold, photo_attachment_id, created_at, updated_at)
        VALUES (:id, :acquisition_id, :name, :price, :stock, :units_sold, :photo_attachment_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create merch item: %w", err)
	}
	return nil
}

// UpdateMerchItem replaces a merchandise line.
func (r *AcquisitionRepository) UpdateMerchItem(ctx context.Context, item *models.MerchItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE merch_items SET name = :name, price = :price, stock = :stock, units_sold = :units_sold, photo_attachment_id = :photo_attachment_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update merch item: %w", err)
	}
	return nil
}

// DeleteMerchItem removes a merchandise line. Merch lines have no
// soft-delete lifecycle of their own; they live and die with the panel.
func (r *AcquisitionRepository) DeleteMerchItem(ctx context.Context, id string) error {
	const query = `DELETE FROM merch_items WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete merch item: %w", err)
	}
	return nil
}
