package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/jobs"
)

// attachmentReleaser schedules the release of a superseded attachment.
// Entity services hand over the old attachment id when a save replaces
// it, so the file does not leak once nothing references it.
type attachmentReleaser interface {
	Release(ctx context.Context, attachmentID string) error
}

// replacedAttachment reports the attachment id that a full-replace save
// is about to orphan, or nil when the reference is kept.
func replacedAttachment(current, next *string) *string {
	if current == nil {
		return nil
	}
	if next != nil && *next == *current {
		return nil
	}
	old := *current
	return &old
}

type attachmentStore interface {
	Create(ctx context.Context, att *models.Attachment) error
	FindByID(ctx context.Context, id string) (*models.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type attachmentFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type attachmentSigner interface {
	Generate(id, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (id, relPath string, expiresAt time.Time, err error)
}

type releaseQueue interface {
	Enqueue(job jobs.Job) error
}

// AttachmentReleaseKind is the queue job kind for deferred file deletion.
const AttachmentReleaseKind = "attachment.release"

// AttachmentUpload carries upload metadata and the stream reader.
type AttachmentUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// AttachmentDownload bundles the opened file with response metadata.
type AttachmentDownload struct {
	File        *os.File
	Filename    string
	ContentType string
	SizeBytes   int64
	ExpiresAt   time.Time
}

// AttachmentServiceConfig holds validation parameters.
type AttachmentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	APIPrefix    string
}

// AttachmentService manages uploaded files: covers, photos and
// contract documents.
type AttachmentService struct {
	repo    attachmentStore
	storage attachmentFileStorage
	signer  attachmentSigner
	queue   releaseQueue
	logger  *zap.Logger
	cfg     AttachmentServiceConfig
	mimeSet map[string]struct{}
}

// NewAttachmentService constructs the service with defaults.
func NewAttachmentService(repo attachmentStore, storage attachmentFileStorage, signer attachmentSigner, queue releaseQueue, logger *zap.Logger, cfg AttachmentServiceConfig) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/png", "image/jpeg", "image/webp", "application/pdf"}
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &AttachmentService{
		repo:    repo,
		storage: storage,
		signer:  signer,
		queue:   queue,
		logger:  logger,
		cfg:     cfg,
		mimeSet: mimeSet,
	}
}

// Upload persists the file stream and its metadata row.
func (s *AttachmentService) Upload(ctx context.Context, upload AttachmentUpload, actor *models.JWTClaims) (*models.Attachment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	contentType, err := s.detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, allowed := s.mimeSet[strings.ToLower(contentType)]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedMIME, "mime type not allowed")
	}
	filename := s.generateFilename(upload.Filename)
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	path, err := s.storage.SaveStream(filename, upload.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist attachment file")
	}
	att := &models.Attachment{
		FileName:    upload.Filename,
		ContentType: contentType,
		SizeBytes:   upload.Size,
		StoragePath: path,
		UploadedBy:  actor.UserID,
	}
	if err := s.repo.Create(ctx, att); err != nil {
		_ = s.storage.Delete(path)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attachment metadata")
	}
	return att, nil
}

// Get returns attachment metadata.
func (s *AttachmentService) Get(ctx context.Context, id string) (*models.Attachment, error) {
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attachment")
	}
	return att, nil
}

// GetDownloadURL generates a signed URL for downloading the file.
func (s *AttachmentService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	att, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	token, _, err := s.signer.Generate(att.ID, att.StoragePath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate download token")
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	return fmt.Sprintf("%s/attachments/%s/download?token=%s", base, att.ID, token), nil
}

// Download validates the token and opens the attachment file.
func (s *AttachmentService) Download(ctx context.Context, id, token string) (*AttachmentDownload, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	att, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	attachmentID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired token")
	}
	if attachmentID != att.ID || relPath != att.StoragePath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open attachment file")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat attachment file")
	}
	return &AttachmentDownload{
		File:        file,
		Filename:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   info.Size(),
		ExpiresAt:   expiresAt,
	}, nil
}

// Release enqueues deferred deletion of an attachment that nothing
// references anymore. Deletion happens on the worker queue so a save is
// never held up by filesystem IO.
func (s *AttachmentService) Release(ctx context.Context, attachmentID string) error {
	if s.queue == nil {
		return s.releaseNow(ctx, attachmentID)
	}
	return s.queue.Enqueue(jobs.Job{
		ID:      attachmentID,
		Kind:    AttachmentReleaseKind,
		Payload: attachmentID,
	})
}

func (s *AttachmentService) releaseNow(ctx context.Context, attachmentID string) error {
	att, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("load attachment %s: %w", attachmentID, err)
	}
	if err := s.storage.Delete(att.StoragePath); err != nil {
		return fmt.Errorf("delete attachment file %s: %w", att.StoragePath, err)
	}
	if err := s.repo.Delete(ctx, attachmentID); err != nil {
		return fmt.Errorf("delete attachment metadata %s: %w", attachmentID, err)
	}
	return nil
}

// ReleaseHandler adapts the deferred deletion into a queue handler.
func (s *AttachmentService) ReleaseHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		attachmentID, ok := job.Payload.(string)
		if !ok {
			s.logger.Error("release job carries unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return s.releaseNow(ctx, attachmentID)
	}
}

func (s *AttachmentService) detectMime(upload AttachmentUpload) (string, error) {
	buf := make([]byte, 512)
	n, err := upload.Content.Read(buf)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sniff file type")
	}
	contentType := http.DetectContentType(buf[:n])
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType), nil
}

func (s *AttachmentService) generateFilename(original string) string {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d_%s%s", time.Now().UTC().Unix(), hex.EncodeToString(suffix), ext)
}
