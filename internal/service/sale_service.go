package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

type saleRepository interface {
	List(ctx context.Context, filter models.SaleFilter) ([]models.Sale, int, error)
	FindByID(ctx context.Context, id string) (*models.Sale, error)
	Create(ctx context.Context, sale *models.Sale) error
	Update(ctx context.Context, sale *models.Sale) error
	SetActive(ctx context.Context, id string, active bool) error
}

// SaleRequest holds payload for creating and updating sales. No total
// field: the total is always derived from quantity and unit price at
// save time, never trusted from the client.
type SaleRequest struct {
	SaleDate  string  `json:"sale_date" validate:"required,datetime=2006-01-02"`
	ItemLabel string  `json:"item_label" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

// SaleService handles sale use-cases.
type SaleService struct {
	repo      saleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSaleService constructs the sale service.
func NewSaleService(repo saleRepository, validate *validator.Validate, logger *zap.Logger) *SaleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{repo: repo, validator: validate, logger: logger}
}

// List returns sales and pagination metadata.
func (s *SaleService) List(ctx context.Context, filter models.SaleFilter) ([]models.Sale, *models.Pagination, error) {
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sales")
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
	return sales, pagination, nil
}

// Get returns one sale.
func (s *SaleService) Get(ctx context.Context, id string) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	return sale, nil
}

// Create registers a new sale with its total computed server-side.
func (s *SaleService) Create(ctx context.Context, req SaleRequest) (*models.Sale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sale payload")
	}
	sale := &models.Sale{
		SaleDate:  req.SaleDate,
		ItemLabel: req.ItemLabel,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Total:     float64(req.Quantity) * req.UnitPrice,
		Active:    true,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sale")
	}
	return sale, nil
}

// Update replaces the sale's fields and recomputes the total.
func (s *SaleService) Update(ctx context.Context, id string, req SaleRequest) (*models.Sale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sale payload")
	}
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	sale.SaleDate = req.SaleDate
	sale.ItemLabel = req.ItemLabel
	sale.Quantity = req.Quantity
	sale.UnitPrice = req.UnitPrice
	sale.Total = float64(req.Quantity) * req.UnitPrice
	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sale")
	}
	return sale, nil
}

// Deactivate soft-deletes a sale.
func (s *SaleService) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Restore flips a soft-deleted sale back to active.
func (s *SaleService) Restore(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *SaleService) setActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "sale not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sale")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change sale status")
	}
	return nil
}
