package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type acquisitionRepository interface {
	List(ctx context.Context, filter models.AcquisitionFilter) ([]models.Acquisition, int, error)
	FindByID(ctx context.Context, id string) (*models.Acquisition, error)
	Create(ctx context.Context, acq *models.Acquisition) error
	Update(ctx context.Context, acq *models.Acquisition) error
}

// CreateAcquisitionRequest holds payload for buying an artist contract.
type CreateAcquisitionRequest struct {
	ArtistName           string  `json:"artist_name" validate:"required"`
	StartDate            string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Amount               float64 `json:"amount" validate:"required,gt=0"`
	Terms                string  `json:"terms"`
	ContractAttachmentID *string `json:"contract_attachment_id"`
}

// UpdateAcquisitionRequest replaces the editable contract fields. The
// end date is intentionally not re-validated as a date so that edits to
// a finalized contract round-trip the sentinel.
type UpdateAcquisitionRequest struct {
	ArtistName           string  `json:"artist_name" validate:"required"`
	StartDate            string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `json:"end_date" validate:"required"`
	Amount               float64 `json:"amount" validate:"required,gt=0"`
	Terms                string  `json:"terms"`
	ContractAttachmentID *string `json:"contract_attachment_id"`
}

// SellAcquisitionRequest finalizes a contract sale. SalePrice defaults
// to the contract amount when omitted. Any end date the caller supplies
// is discarded; the stored end date is always the finalized sentinel.
type SellAcquisitionRequest struct {
	SalePrice                 *float64 `json:"sale_price" validate:"omitempty,gt=0"`
	SaleAgreementAttachmentID *string  `json:"sale_agreement_attachment_id"`
}

// AcquisitionService handles artist contract use-cases.
type AcquisitionService struct {
	repo      acquisitionRepository
	releaser  attachmentReleaser
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcquisitionService constructs the acquisition service.
func NewAcquisitionService(repo acquisitionRepository, releaser attachmentReleaser, validate *validator.Validate, logger *zap.Logger) *AcquisitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcquisitionService{repo: repo, releaser: releaser, validator: validate, logger: logger}
}

// List returns acquisitions and pagination metadata.
func (s *AcquisitionService) List(ctx context.Context, filter models.AcquisitionFilter) ([]models.Acquisition, *models.Pagination, error) {
	acqs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list acquisitions")
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
	return acqs, pagination, nil
}

// Get returns one acquisition.
func (s *AcquisitionService) Get(ctx context.Context, id string) (*models.Acquisition, error) {
	acq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "acquisition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acquisition")
	}
	return acq, nil
}

// Create registers a contract purchase in acquired status.
func (s *AcquisitionService) Create(ctx context.Context, req CreateAcquisitionRequest) (*models.Acquisition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid acquisition payload")
	}
	acq := &models.Acquisition{
		ArtistName:           req.ArtistName,
		Kind:                 models.AcquisitionPurchase,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Amount:               req.Amount,
		Terms:                req.Terms,
		ContractAttachmentID: req.ContractAttachmentID,
		Status:               models.AcquisitionAcquired,
	}
	if err := s.repo.Create(ctx, acq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create acquisition")
	}
	return acq, nil
}

// Update replaces the contract fields. A sold contract keeps its
// finalized end date no matter what the edit submits.
func (s *AcquisitionService) Update(ctx context.Context, id string, req UpdateAcquisitionRequest) (*models.Acquisition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid acquisition payload")
	}
	acq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "acquisition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acquisition")
	}
	replaced := replacedAttachment(acq.ContractAttachmentID, req.ContractAttachmentID)
	acq.ArtistName = req.ArtistName
	acq.StartDate = req.StartDate
	acq.EndDate = req.EndDate
	acq.Amount = req.Amount
	acq.Terms = req.Terms
	acq.ContractAttachmentID = req.ContractAttachmentID
	if acq.Status == models.AcquisitionSold {
		acq.EndDate = models.EndDateFinalized
	}
	if err := s.repo.Update(ctx, acq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update acquisition")
	}
	if replaced != nil && s.releaser != nil {
		if rerr := s.releaser.Release(ctx, *replaced); rerr != nil {
			s.logger.Warn("failed to schedule attachment release", zap.String("attachment_id", *replaced), zap.Error(rerr))
		}
	}
	return acq, nil
}

// Sell finalizes a contract: the status flips to sold, the kind to sale
// and the end date to the finalized sentinel. Selling twice conflicts.
func (s *AcquisitionService) Sell(ctx context.Context, id string, req SellAcquisitionRequest) (*models.Acquisition, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sale payload")
	}
	acq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "acquisition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acquisition")
	}
	if acq.Status == models.AcquisitionSold {
		return nil, appErrors.Clone(appErrors.ErrAlreadySold, "acquisition already sold")
	}
	acq.Kind = models.AcquisitionSale
	acq.Status = models.AcquisitionSold
	acq.EndDate = models.EndDateFinalized
	if req.SalePrice != nil {
		acq.Amount = *req.SalePrice
	}
	acq.SaleAgreementAttachmentID = req.SaleAgreementAttachmentID
	if err := s.repo.Update(ctx, acq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sell acquisition")
	}
	return acq, nil
}

// Restore reverts a sold contract to acquired. Everything but the
// status is left as the sale wrote it, mirroring the soft-delete
// round-trip of the other resources.
func (s *AcquisitionService) Restore(ctx context.Context, id string) (*models.Acquisition, error) {
	acq, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "acquisition not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acquisition")
	}
	acq.Status = models.AcquisitionAcquired
	if err := s.repo.Update(ctx, acq); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore acquisition")
	}
	return acq, nil
}
