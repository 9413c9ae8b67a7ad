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

// SaleRepository manages persistence for sale records.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository constructs a SaleRepository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// List returns sales matching the provided filters. Search matches the
// item label.
func (r *SaleRepository) List(ctx context.Context, filter models.SaleFilter) ([]models.Sale, int, error) {
	baseQuery := `FROM sales WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(item_label) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "sale_date"
	}
	allowedSorts := map[string]bool{
		"sale_date":  true,
		"total":      true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "sale_date"
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

	listQuery := fmt.Sprintf("SELECT id, sale_date, item_label, quantity, unit_price, total, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var sales []models.Sale
	if err := r.db.SelectContext(ctx, &sales, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	return sales, total, nil
}

// FindByID fetches a sale by its identifier.
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*models.Sale, error) {
	const query = `SELECT id, sale_date, item_label, quantity, unit_price, total, active, created_at, updated_at FROM sales WHERE id = $1 LIMIT 1`
	var sale models.Sale
	if err := r.db.GetContext(ctx, &sale, query, id); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Create inserts a new sale record.
func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now
	}
	sale.UpdatedAt = now
	const query = `INSERT INTO sales (id, sale_date, item_label, quantity, unit_price, total, active, created_at, updated_at)
        VALUES (:id, :sale_date, :item_label, :quantity, :unit_price, :total, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of a sale.
func (r *SaleRepository) Update(ctx context.Context, sale *models.Sale) error {
	sale.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sales SET sale_date = :sale_date, item_label = :item_label, quantity = :quantity, unit_price = :unit_price, total = :total, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sale); err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *SaleRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE sales SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set sale active: %w", err)
	}
	return nil
}
