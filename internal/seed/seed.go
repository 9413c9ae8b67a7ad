package seed

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/discora/label-admin-api/internal/models"
	"github.com/discora/label-admin-api/internal/repository"
)

// Seeder inserts demo rows for local development. It is a no-op when
// the admin account already exists, so restarts do not duplicate data.
type Seeder struct {
	users        *repository.UserRepository
	albums       *repository.AlbumRepository
	artists      *repository.ArtistRepository
	songs        *repository.SongRepository
	sales        *repository.SaleRepository
	acquisitions *repository.AcquisitionRepository
	logger       *zap.Logger
}

// New constructs a Seeder.
func New(users *repository.UserRepository, albums *repository.AlbumRepository, artists *repository.ArtistRepository, songs *repository.SongRepository, sales *repository.SaleRepository, acquisitions *repository.AcquisitionRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{users: users, albums: albums, artists: artists, songs: songs, sales: sales, acquisitions: acquisitions, logger: logger}
}

const adminEmail = "admin@label.local"

// Run inserts the demo dataset.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.users.FindByEmail(ctx, adminEmail); err == nil {
		s.logger.Info("seed data already present, skipping")
		return nil
	} else if err != sql.ErrNoRows {
		return err
	}

	users := []struct {
		name     string
		email    string
		password string
		role     models.UserRole
	}{
		{"Usuario 1", adminEmail, "admin123", models.RoleAdmin},
		{"Usuario 2", "usuario@label.local", "usuario123", models.RoleManager},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			Active:       true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
	}

	artists := []*models.Artist{
		{Name: "Artista 1", Genre: "Rock", Country: "España", Biography: "Banda fundadora del catálogo.", Active: true},
		{Name: "Artista 2", Genre: "Pop", Country: "México", Biography: "Proyecto solista.", Active: true},
	}
	for _, artist := range artists {
		if err := s.artists.Create(ctx, artist); err != nil {
			return err
		}
	}

	albums := []*models.Album{
		{Title: "Álbum 1", Artist: "Artista 1", Year: 2020, Genre: "Rock", Active: true},
		{Title: "Álbum 2", Artist: "Artista 2", Year: 2021, Genre: "Pop", Active: true},
	}
	for _, album := range albums {
		if err := s.albums.Create(ctx, album); err != nil {
			return err
		}
	}

	songs := []*models.Song{
		{Title: "Canción 1", Album: "Álbum 1", Duration: "3:45", Year: 2020, Genre: "Rock", Active: true},
		{Title: "Canción 2", Album: "Álbum 2", Duration: "4:10", Year: 2021, Genre: "Pop", Active: true},
	}
	for _, song := range songs {
		if err := s.songs.Create(ctx, song); err != nil {
			return err
		}
	}

	sales := []*models.Sale{
		{SaleDate: "2023-01-15", ItemLabel: "Álbum 1", Quantity: 3, UnitPrice: 15, Total: 45, Active: true},
		{SaleDate: "2023-02-02", ItemLabel: "Canción 2", Quantity: 10, UnitPrice: 1.5, Total: 15, Active: true},
	}
	for _, sale := range sales {
		if err := s.sales.Create(ctx, sale); err != nil {
			return err
		}
	}

	acquisition := &models.Acquisition{
		ArtistName: "Artista 1",
		Kind:       models.AcquisitionPurchase,
		StartDate:  "2022-06-01",
		EndDate:    "2025-06-01",
		Amount:     50000,
		Terms:      "Contrato de adquisición inicial.",
		Status:     models.AcquisitionAcquired,
	}
	if err := s.acquisitions.Create(ctx, acquisition); err != nil {
		return err
	}
	merch := &models.MerchItem{
		AcquisitionID: acquisition.ID,
		Name:          "Camiseta",
		Price:         20,
		Stock:         100,
		UnitsSold:     30,
	}
	if err := s.acquisitions.CreateMerchItem(ctx, merch); err != nil {
		return err
	}

	s.logger.Info("seed data inserted",
		zap.Int("users", len(users)),
		zap.Int("artists", len(artists)),
		zap.Int("albums", len(albums)),
		zap.Int("songs", len(songs)),
		zap.Int("sales", len(sales)))
	return nil
}
