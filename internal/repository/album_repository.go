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

// AlbumRepository manages persistence for album records.
type AlbumRepository struct {
	db *sqlx.DB
}

// NewAlbumRepository constructs an AlbumRepository.
func NewAlbumRepository(db *sqlx.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// List returns albums matching the provided filters. Search is a
// case-insensitive substring match against the title.
func (r *AlbumRepository) List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error) {
	baseQuery := `FROM albums WHERE 1=1`
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
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
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
		"title":      true,
		"year":       true,
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

	listQuery := fmt.Sprintf("SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var albums []models.Album
	if err := r.db.SelectContext(ctx, &albums, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list albums: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count albums: %w", err)
	}

	return albums, total, nil
}

// FindByID fetches an album by its identifier.
func (r *AlbumRepository) FindByID(ctx context.Context, id string) (*models.Album, error) {
	const query = `SELECT id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at FROM albums WHERE id = $1 LIMIT 1`
	var album models.Album
	if err := r.db.GetContext(ctx, &album, query, id); err != nil {
		return nil, err
	}
	return &album, nil
}

// Create inserts a new album record. Duplicate titles are allowed.
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	if album.ID == "" {
		album.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if album.CreatedAt.IsZero() {
		album.CreatedAt = now
	}
	album.UpdatedAt = now
	const query = `INSERT INTO albums (id, title, artist, year, genre, cover_attachment_id, active, created_at, updated_at)
        VALUES (:id, :title, :artist, :year, :genre, :cover_attachment_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, album); err != nil {
		return fmt.Errorf("create album: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of an album.
func (r *AlbumRepository) Update(ctx context.Context, album *models.Album) error {
	album.UpdatedAt = time.Now().UTC()
	const query = `UPDATE albums SET title = :title, artist = :artist, year = :year, genre = :genre, cover_attachment_id = :cover_attachment_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, album); err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag. Rows are never physically removed.
func (r *AlbumRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE albums SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set album active: %w", err)
	}
	return nil
}
