package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
	"github.com/discora/label-admin-api/pkg/export"
)

// ExportFormat enumerates supported download formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	MaxRows int
}

type exportAlbumLister interface {
	List(ctx context.Context, filter models.AlbumFilter) ([]models.Album, int, error)
}

type exportArtistLister interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int, error)
}

type exportSongLister interface {
	List(ctx context.Context, filter models.SongFilter) ([]models.Song, int, error)
}

type exportSaleLister interface {
	List(ctx context.Context, filter models.SaleFilter) ([]models.Sale, int, error)
}

type exportUserLister interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

type exportAcquisitionLister interface {
	List(ctx context.Context, filter models.AcquisitionFilter) ([]models.Acquisition, int, error)
}

// ExportService flattens filtered entity lists into downloadable files.
// Attachment references never make it into an export; only flat scalar
// fields are serialized.
type ExportService struct {
	albums       exportAlbumLister
	artists      exportArtistLister
	songs        exportSongLister
	sales        exportSaleLister
	users        exportUserLister
	acquisitions exportAcquisitionLister
	csv          csvRenderer
	pdf          pdfRenderer
	xlsx         xlsxRenderer
	logger       *zap.Logger
	cfg          ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(albums exportAlbumLister, artists exportArtistLister, songs exportSongLister, sales exportSaleLister, users exportUserLister, acquisitions exportAcquisitionLister, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 10000
	}
	return &ExportService{
		albums:       albums,
		artists:      artists,
		songs:        songs,
		sales:        sales,
		users:        users,
		acquisitions: acquisitions,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		xlsx:         export.NewXLSXExporter(),
		logger:       logger,
		cfg:          cfg,
	}
}

// Render produces the dataset in the requested format.
func (s *ExportService) Render(entity string, data export.Dataset, format ExportFormat) (*ExportFile, error) {
	var payload []byte
	var err error
	var contentType string

	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(data)
		contentType = "text/csv"
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(data, titleCase(entity))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(data, fmt.Sprintf("%s report", titleCase(entity)))
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s_%s.%s", entity, time.Now().UTC().Format("20060102_150405"), format)
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

// Albums exports the filtered album list.
func (s *ExportService) Albums(ctx context.Context, filter models.AlbumFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	albums, _, err := s.albums.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect albums for export")
	}
	data := export.Dataset{Headers: []string{"Title", "Artist", "Year", "Genre", "Status"}}
	for _, a := range albums {
		data.Rows = append(data.Rows, map[string]string{
			"Title":  a.Title,
			"Artist": a.Artist,
			"Year":   strconv.Itoa(a.Year),
			"Genre":  a.Genre,
			"Status": statusLabel(a.Active),
		})
	}
	return s.Render("albums", data, format)
}

// Artists exports the filtered artist list.
func (s *ExportService) Artists(ctx context.Context, filter models.ArtistFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	artists, _, err := s.artists.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect artists for export")
	}
	data := export.Dataset{Headers: []string{"Name", "Genre", "Country", "Biography", "Status"}}
	for _, a := range artists {
		data.Rows = append(data.Rows, map[string]string{
			"Name":      a.Name,
			"Genre":     a.Genre,
			"Country":   a.Country,
			"Biography": a.Biography,
			"Status":    statusLabel(a.Active),
		})
	}
	return s.Render("artists", data, format)
}

// Songs exports the filtered song list.
func (s *ExportService) Songs(ctx context.Context, filter models.SongFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	songs, _, err := s.songs.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect songs for export")
	}
	data := export.Dataset{Headers: []string{"Title", "Album", "Duration", "Year", "Genre", "Status"}}
	for _, song := range songs {
		data.Rows = append(data.Rows, map[string]string{
			"Title":    song.Title,
			"Album":    song.Album,
			"Duration": song.Duration,
			"Year":     strconv.Itoa(song.Year),
			"Genre":    song.Genre,
			"Status":   statusLabel(song.Active),
		})
	}
	return s.Render("songs", data, format)
}

// Sales exports the filtered sale list.
func (s *ExportService) Sales(ctx context.Context, filter models.SaleFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	sales, _, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect sales for export")
	}
	data := export.Dataset{Headers: []string{"Date", "Item", "Quantity", "Unit Price", "Total", "Status"}}
	for _, sale := range sales {
		data.Rows = append(data.Rows, map[string]string{
			"Date":       sale.SaleDate,
			"Item":       sale.ItemLabel,
			"Quantity":   strconv.Itoa(sale.Quantity),
			"Unit Price": strconv.FormatFloat(sale.UnitPrice, 'f', 2, 64),
			"Total":      strconv.FormatFloat(sale.Total, 'f', 2, 64),
			"Status":     statusLabel(sale.Active),
		})
	}
	return s.Render("sales", data, format)
}

// Users exports the filtered user list. Password hashes stay out.
func (s *ExportService) Users(ctx context.Context, filter models.UserFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	users, _, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect users for export")
	}
	data := export.Dataset{Headers: []string{"Name", "Email", "Role", "Status"}}
	for _, u := range users {
		data.Rows = append(data.Rows, map[string]string{
			"Name":   u.Name,
			"Email":  u.Email,
			"Role":   string(u.Role),
			"Status": statusLabel(u.Active),
		})
	}
	return s.Render("users", data, format)
}

// Acquisitions exports the filtered acquisition list.
func (s *ExportService) Acquisitions(ctx context.Context, filter models.AcquisitionFilter, format ExportFormat) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = s.cfg.MaxRows
	acqs, _, err := s.acquisitions.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect acquisitions for export")
	}
	data := export.Dataset{Headers: []string{"Artist", "Kind", "Start Date", "End Date", "Amount", "Status"}}
	for _, acq := range acqs {
		data.Rows = append(data.Rows, map[string]string{
			"Artist":     acq.ArtistName,
			"Kind":       string(acq.Kind),
			"Start Date": acq.StartDate,
			"End Date":   acq.EndDate,
			"Amount":     strconv.FormatFloat(acq.Amount, 'f', 2, 64),
			"Status":     string(acq.Status),
		})
	}
	return s.Render("acquisitions", data, format)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func statusLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
