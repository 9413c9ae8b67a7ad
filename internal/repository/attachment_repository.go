package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/discora/label-admin-api/internal/models"
)

// AttachmentRepository persists uploaded file metadata. The bytes live
// on the storage backend; rows here only describe them.
type AttachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository constructs an AttachmentRepository.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create inserts attachment metadata.
func (r *AttachmentRepository) Create(ctx context.Context, att *models.Attachment) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attachments (id, file_name, content_type, size_bytes, storage_path, uploaded_by, created_at)
        VALUES (:id, :file_name, :content_type, :size_bytes, :storage_path, :uploaded_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, att); err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

// FindByID fetches attachment metadata by id.
func (r *AttachmentRepository) FindByID(ctx context.Context, id string) (*models.Attachment, error) {
	const query = `SELECT id, file_name, content_type, size_bytes, storage_path, uploaded_by, created_at FROM attachments WHERE id = $1 LIMIT 1`
	var att models.Attachment
	if err := r.db.GetContext(ctx, &att, query, id); err != nil {
		return nil, err
	}
	return &att, nil
}

// Delete removes attachment metadata. The file itself is released by the
// cleanup queue, not here.
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM attachments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}
