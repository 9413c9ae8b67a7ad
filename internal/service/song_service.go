package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type songRepository interface {
	List(ctx context.Context, filter models.SongFilter) ([]models.Song, int, error)
	FindByID(ctx context.Context, id string) (*models.Song, error)
	Create(ctx context.Context, song *models.Song) error
	Update(ctx context.Context, song *models.Song) error
	SetActive(ctx context.Context, id string, active bool) error
}

// SongRequest holds payload for creating and updating songs. Create and
// edit share the same field set, so one shape covers both.
type SongRequest struct {
	Title             string  `json:"title" validate:"required"`
	Album             string  `json:"album" validate:"required"`
	Duration          string  `json:"duration" validate:"required"`
	Year              int     `json:"year" validate:"required"`
	Genre             string  `json:"genre" validate:"required"`
	PhotoAttachmentID *string `json:"photo_attachment_id"`
}

// SongService handles song use-cases.
type SongService struct {
	repo      songRepository
	releaser  attachmentReleaser
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSongService constructs the song service.
func NewSongService(repo songRepository, releaser attachmentReleaser, validate *validator.Validate, logger *zap.Logger) *SongService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SongService{repo: repo, releaser: releaser, validator: validate, logger: logger}
}

// List returns songs and pagination metadata.
func (s *SongService) List(ctx context.Context, filter models.SongFilter) ([]models.Song, *models.Pagination, error) {
	songs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list songs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return songs, pagination, nil
}

// Get returns one song.
func (s *SongService) Get(ctx context.Context, id string) (*models.Song, error) {
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "song not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load song")
	}
	return song, nil
}

// Validate runs the request checks without touching the store and
// returns a field-to-message map. The edit form calls this on every
// keystroke to surface inline errors.
func (s *SongService) Validate(req SongRequest) map[string]string {
	err := s.validator.Struct(req)
	if err == nil {
		return map[string]string{}
	}
	fieldErrors := map[string]string{}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrors["_"] = err.Error()
		return fieldErrors
	}
	for _, fe := range validationErrs {
		fieldErrors[strings.ToLower(fe.Field())] = "this field is required"
	}
	return fieldErrors
}

// Create registers a new song.
func (s *SongService) Create(ctx context.Context, req SongRequest) (*models.Song, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid song payload")
	}
	song := &models.Song{
		Title:             req.Title,
		Album:             req.Album,
		Duration:          req.Duration,
		Year:              req.Year,
		Genre:             req.Genre,
		PhotoAttachmentID: req.PhotoAttachmentID,
		Active:            true,
	}
	if err := s.repo.Create(ctx, song); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create song")
	}
	return song, nil
}

// Update replaces the song's fields.
func (s *SongService) Update(ctx context.Context, id string, req SongRequest) (*models.Song, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid song payload")
	}
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "song not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load song")
	}
	replaced := replacedAttachment(song.PhotoAttachmentID, req.PhotoAttachmentID)
	song.Title = req.Title
	song.Album = req.Album
	song.Duration = req.Duration
	song.Year = req.Year
	song.Genre = req.Genre
	song.PhotoAttachmentID = req.PhotoAttachmentID
	if err := s.repo.Update(ctx, song); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update song")
	}
	if replaced != nil && s.releaser != nil {
		if rerr := s.releaser.Release(ctx, *replaced); rerr != nil {
			s.logger.Warn("failed to schedule attachment release", zap.String("attachment_id", *replaced), zap.Error(rerr))
		}
	}
	return song, nil
}

// Deactivate soft-deletes a song.
func (s *SongService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore flips a soft-deleted song back to active.
func (s *SongService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *SongService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "song not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load song")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change song status")
	}
	return nil
}
