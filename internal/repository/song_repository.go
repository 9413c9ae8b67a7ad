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

// SongRepository manages persistence for song records.
type SongRepository struct {
	db *sqlx.DB
}

// NewSongRepository constructs a SongRepository.
func NewSongRepository(db *sqlx.DB) *SongRepository {
	return &SongRepository{db: db}
}

// List returns songs matching the provided filters.
func (r *SongRepository) List(ctx context.Context, filter models.SongFilter) ([]models.Song, int, error) {
	baseQuery := `FROM songs WHERE 1=1`
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

	listQuery := fmt.Sprintf("SELECT id, title, album, duration, year, genre, photo_attachment_id, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var songs []models.Song
	if err := r.db.SelectContext(ctx, &songs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list songs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count songs: %w", err)
	}

	return songs, total, nil
}

// FindByID fetches a song by its identifier.
func (r *SongRepository) FindByID(ctx context.Context, id string) (*models.Song, error) {
	const query = `SELECT id, title, album, duration, year, genre, photo_attachment_id, active, created_at, updated_at FROM songs WHERE id = $1 LIMIT 1`
	var song models.Song
	if err := r.db.GetContext(ctx, &song, query, id); err != nil {
		return nil, err
	}
	return &song, nil
}

// Create inserts a new song record.
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if song.CreatedAt.IsZero() {
		song.CreatedAt = now
	}
	song.UpdatedAt = now
	const query = `INSERT INTO songs (id, title, album, duration, year, genre, photo_attachment_id, active, created_at, updated_at)
        VALUES (:id, :title, :album, :duration, :year, :genre, :photo_attachment_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, song); err != nil {
		return fmt.Errorf("create song: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of a song.
func (r *SongRepository) Update(ctx context.Context, song *models.Song) error {
	song.UpdatedAt = time.Now().UTC()
	const query = `UPDATE songs SET title = :title, album = :album, duration = :duration, year = :year, genre = :genre, photo_attachment_id = :photo_attachment_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, song); err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *SongRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE songs SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set song active: %w", err)
	}
	return nil
}
