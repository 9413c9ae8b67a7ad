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

// ArtistRepository manages persistence for artist records.
type ArtistRepository struct {
	db *sqlx.DB
}

// NewArtistRepository constructs an ArtistRepository.
func NewArtistRepository(db *sqlx.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// List returns artists matching the provided filters.
func (r *ArtistRepository) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error) {
	baseQuery := `FROM artists WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("genre = $%d", len(args)+1))
		args = append(args, filter.Genre)
	}
	if filter.Country != "" {
		conditions = append(conditions, fmt.Sprintf("country = $%d", len(args)+1))
		args = append(args, filter.Country)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
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
		"name":       true,
		"country":    true,
		"created_at": true,
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

	listQuery := fmt.Sprintf("SELECT id, name, genre, country, biography, photo_attachment_id, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var artists []models.Artist
	if err := r.db.SelectContext(ctx, &artists, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count artists: %w", err)
	}

	return artists, total, nil
}

// FindByID fetches an artist by its identifier.
func (r *ArtistRepository) FindByID(ctx context.Context, id string) (*models.Artist, error) {
	const query = `SELECT id, name, genre, country, biography, photo_attachment_id, active, created_at, updated_at FROM artists WHERE id = $1 LIMIT 1`
	var artist models.Artist
	if err := r.db.GetContext(ctx, &artist, query, id); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Create inserts a new artist record.
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if artist.ID == "" {
		artist.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if artist.CreatedAt.IsZero() {
		artist.CreatedAt = now
	}
	artist.UpdatedAt = now
	const query = `INSERT INTO artists (id, name, genre, country, biography, photo_attachment_id, active, created_at, updated_at)
        VALUES (:id, :name, :genre, :country, :biography, :photo_attachment_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("create artist: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of an artist.
func (r *ArtistRepository) Update(ctx context.Context, artist *models.Artist) error {
	artist.UpdatedAt = time.Now().UTC()
	const query = `UPDATE artists SET name = :name, genre = :genre, country = :country, biography = :biography, photo_attachment_id = :photo_attachment_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *ArtistRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE artists SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set artist active: %w", err)
	}
	return nil
}
