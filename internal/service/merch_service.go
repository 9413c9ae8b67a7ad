package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/dto"
	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/export"
)

type merchRepository interface {
	FindByID(ctx context.Context, id string) (*models.Acquisition, error)
	ListMerchItems(ctx context.Context, acquisitionID string) ([]models.MerchItem, error)
	FindMerchItem(ctx context.Context, id string) (*models.MerchItem, error)
	CreateMerchItem(ctx context.Context, item *models.MerchItem) error
	UpdateMerchItem(ctx context.Context, item *models.MerchItem) error
	DeleteMerchItem(ctx context.Context, id string) error
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// MerchItemRequest holds payload for creating and updating merchandise
// lines.
type MerchItemRequest struct {
	Name              string  `json:"name" validate:"required"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	Stock             int     `json:"stock" validate:"required,gt=0"`
	UnitsSold         int     `json:"units_sold" validate:"gte=0"`
	PhotoAttachmentID *string `json:"photo_attachment_id"`
}

// Spreadsheet column headers shared by import and export. The dashboard
// always exchanged merchandising data under these Spanish names.
const (
	merchColName  = "Nombre Articulo"
	merchColPrice = "Precio"
	merchColSold  = "Vendidos"
	merchColStock = "Stock"
	merchColPhoto = "Imagen"
)

// MerchServiceConfig tunes stats caching and spreadsheet intake.
type MerchServiceConfig struct {
	StatsCacheTTL  time.Duration
	MaxImportBytes int64
}

// MerchService manages merchandise items nested under acquisitions,
// their derived statistics and the spreadsheet exchange.
type MerchService struct {
	repo      merchRepository
	cache     statsCache
	cfg       MerchServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMerchService constructs the merch service.
func NewMerchService(repo merchRepository, cache statsCache, cfg MerchServiceConfig, validate *validator.Validate, logger *zap.Logger) *MerchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = 5 * time.Minute
	}
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = 10 << 20
	}
	return &MerchService{repo: repo, cache: cache, cfg: cfg, validator: validate, logger: logger}
}

func merchStatsKey(acquisitionID string) string {
	return "merch:stats:" + acquisitionID
}

func (s *MerchService) requireAcquisition(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "acquisition not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acquisition")
	}
	return nil
}

func (s *MerchService) invalidateStats(ctx context.Context, acquisitionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, merchStatsKey(acquisitionID)); err != nil {
		s.logger.Warn("failed to invalidate merch stats cache", zap.String("acquisition_id", acquisitionID), zap.Error(err))
	}
}

// ListItems returns the merchandise lines of an acquisition.
func (s *MerchService) ListItems(ctx context.Context, acquisitionID string) ([]models.MerchItem, error) {
	if err := s.requireAcquisition(ctx, acquisitionID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListMerchItems(ctx, acquisitionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list merch items")
	}
	return items, nil
}

// AddItem inserts a merchandise line and invalidates the stats cache.
func (s *MerchService) AddItem(ctx context.Context, acquisitionID string, req MerchItemRequest) (*models.MerchItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid merch item payload")
	}
	if err := s.requireAcquisition(ctx, acquisitionID); err != nil {
		return nil, err
	}
	item := &models.MerchItem{
		AcquisitionID:     acquisitionID,
		Name:              req.Name,
		Price:             req.Price,
		Stock:             req.Stock,
		UnitsSold:         req.UnitsSold,
		PhotoAttachmentID: req.PhotoAttachmentID,
	}
	if err := s.repo.CreateMerchItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create merch item")
	}
	s.invalidateStats(ctx, acquisitionID)
	return item, nil
}

// UpdateItem replaces a merchandise line and invalidates the stats cache.
func (s *MerchService) UpdateItem(ctx context.Context, acquisitionID, itemID string, req MerchItemRequest) (*models.MerchItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid merch item payload")
	}
	item, err := s.repo.FindMerchItem(ctx, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "merch item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load merch item")
	}
	if item.AcquisitionID != acquisitionID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "merch item not found")
	}
	item.Name = req.Name
	item.Price = req.Price
	item.Stock = req.Stock
	item.UnitsSold = req.UnitsSold
	item.PhotoAttachmentID = req.PhotoAttachmentID
	if err := s.repo.UpdateMerchItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update merch item")
	}
	s.invalidateStats(ctx, acquisitionID)
	return item, nil
}

// RemoveItem deletes a merchandise line and invalidates the stats cache.
func (s *MerchService) RemoveItem(ctx context.Context, acquisitionID, itemID string) error {
	item, err := s.repo.FindMerchItem(ctx, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "merch item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load merch item")
	}
	if item.AcquisitionID != acquisitionID {
		return appErrors.Clone(appErrors.ErrNotFound, "merch item not found")
	}
	if err := s.repo.DeleteMerchItem(ctx, itemID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete merch item")
	}
	s.invalidateStats(ctx, acquisitionID)
	return nil
}

// Stats reduces the item list into the merchandising panel numbers and
// the bar-chart series. Results are cached per acquisition.
func (s *MerchService) Stats(ctx context.Context, acquisitionID string) (*dto.MerchStats, error) {
	if err := s.requireAcquisition(ctx, acquisitionID); err != nil {
		return nil, err
	}
	key := merchStatsKey(acquisitionID)
	if s.cache != nil {
		var cached dto.MerchStats
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	items, err := s.repo.ListMerchItems(ctx, acquisitionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list merch items")
	}

	stats := &dto.MerchStats{
		AcquisitionID: acquisitionID,
		ItemCount:     len(items),
		Chart: dto.MerchChart{
			Labels:    make([]string, 0, len(items)),
			UnitsSold: make([]int, 0, len(items)),
			Stock:     make([]int, 0, len(items)),
		},
	}
	for _, item := range items {
		stats.TotalUnitsSold += item.UnitsSold
		stats.TotalRevenue += float64(item.UnitsSold) * item.Price
		if stats.BestSeller == nil || item.UnitsSold > stats.BestSeller.UnitsSold {
			stats.BestSeller = &dto.MerchPoint{Name: item.Name, UnitsSold: item.UnitsSold}
		}
		stats.Chart.Labels = append(stats.Chart.Labels, item.Name)
		stats.Chart.UnitsSold = append(stats.Chart.UnitsSold, item.UnitsSold)
		stats.Chart.Stock = append(stats.Chart.Stock, item.Stock)
	}
	if len(items) > 0 {
		stats.AvgRevenue = stats.TotalRevenue / float64(len(items))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.cfg.StatsCacheTTL); err != nil {
			s.logger.Warn("failed to cache merch stats", zap.String("acquisition_id", acquisitionID), zap.Error(err))
		}
	}
	return stats, nil
}

// Import reads an uploaded spreadsheet and inserts the valid rows.
// Bad rows are reported per row number instead of aborting the batch;
// a missing required column fails the whole import.
func (s *MerchService) Import(ctx context.Context, acquisitionID string, file io.Reader) (*dto.MerchImportReport, error) {
	if err := s.requireAcquisition(ctx, acquisitionID); err != nil {
		return nil, err
	}

	payload, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxImportBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(payload)) > s.cfg.MaxImportBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, "spreadsheet exceeds the upload size limit")
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "file is not a readable spreadsheet")
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to read spreadsheet rows")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "spreadsheet has no header row")
	}

	columns := map[string]int{}
	for idx, header := range rows[0] {
		columns[strings.TrimSpace(header)] = idx
	}
	for _, required := range []string{merchColName, merchColPrice, merchColSold, merchColStock} {
		if _, ok := columns[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("missing required column %q", required))
		}
	}

	report := &dto.MerchImportReport{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		cell := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell(merchColName)
		if name == "" {
			report.Errors = append(report.Errors, dto.MerchImportError{Row: rowNum, Reason: "name is empty"})
			continue
		}
		price, perr := strconv.ParseFloat(cell(merchColPrice), 64)
		if perr != nil || price <= 0 {
			report.Errors = append(report.Errors, dto.MerchImportError{Row: rowNum, Reason: "price is not a positive number"})
			continue
		}
		sold, serr := strconv.Atoi(cell(merchColSold))
		if serr != nil || sold < 0 {
			report.Errors = append(report.Errors, dto.MerchImportError{Row: rowNum, Reason: "units sold is not a non-negative integer"})
			continue
		}
		stock, sterr := strconv.Atoi(cell(merchColStock))
		if sterr != nil || stock <= 0 {
			report.Errors = append(report.Errors, dto.MerchImportError{Row: rowNum, Reason: "stock is not a positive integer"})
			continue
		}

		item := &models.MerchItem{
			AcquisitionID: acquisitionID,
			Name:          name,
			Price:         price,
			Stock:         stock,
			UnitsSold:     sold,
		}
		if photo := cell(merchColPhoto); photo != "" {
			item.PhotoAttachmentID = &photo
		}
		if err := s.repo.CreateMerchItem(ctx, item); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert imported merch item")
		}
		report.Imported++
		report.Items = append(report.Items, *item)
	}

	if report.Imported > 0 {
		s.invalidateStats(ctx, acquisitionID)
	}
	return report, nil
}

// ExportDataset flattens the item list for the spreadsheet exporter,
// using the same column names the import expects.
func (s *MerchService) ExportDataset(ctx context.Context, acquisitionID string) (*export.Dataset, error) {
	items, err := s.ListItems(ctx, acquisitionID)
	if err != nil {
		return nil, err
	}
	data := &export.Dataset{
		Headers: []string{merchColName, merchColPrice, merchColSold, merchColStock},
	}
	for _, item := range items {
		data.Rows = append(data.Rows, map[string]string{
			merchColName:  item.Name,
			merchColPrice: strconv.FormatFloat(item.Price, 'f', 2, 64),
			merchColSold:  strconv.Itoa(item.UnitsSold),
			merchColStock: strconv.Itoa(item.Stock),
		})
	}
	return data, nil
}
