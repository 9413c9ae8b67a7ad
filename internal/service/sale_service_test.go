package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/discora/label-admin-api/internal/models"
)

type mockSaleRepo struct {
	sales map[string]models.Sale
}

func (m *mockSaleRepo) List(ctx context.Context, filter models.SaleFilter) ([]models.Sale, int, error) {
	out := make([]models.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockSaleRepo) FindByID(ctx context.Context, id string) (*models.Sale, error) {
	if s, ok := m.sales[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	if m.sales == nil {
		m.sales = make(map[string]models.Sale)
	}
	if sale.ID == "" {
		sale.ID = "generated"
	}
	m.sales[sale.ID] = *sale
	return nil
}

func (m *mockSaleRepo) Update(ctx context.Context, sale *models.Sale) error {
	m.sales[sale.ID] = *sale
	return nil
}

func (m *mockSaleRepo) SetActive(ctx context.Context, id string, active bool) error {
	if s, ok := m.sales[id]; ok {
		s.Active = active
		m.sales[id] = s
	}
	return nil
}

func TestSaleServiceCreateComputesTotal(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewSaleService(repo, validator.New(), zap.NewNop())

	sale, err := svc.Create(context.Background(), SaleRequest{
		SaleDate:  "2024-05-01",
		ItemLabel: "Álbum 1",
		Quantity:  3,
		UnitPrice: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, sale.Total)
	assert.True(t, sale.Active)
}

func TestSaleServiceUpdateRecomputesTotal(t *testing.T) {
	repo := &mockSaleRepo{sales: map[string]models.Sale{"s1": {ID: "s1", SaleDate: "2024-05-01", ItemLabel: "Álbum 1", Quantity: 3, UnitPrice: 10, Total: 30, Active: true}}}
	svc := NewSaleService(repo, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "s1", SaleRequest{
		SaleDate:  "2024-05-02",
		ItemLabel: "Álbum 1",
		Quantity:  5,
		UnitPrice: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 62.5, updated.Total)
}

func TestSaleServiceRejectsNonPositiveNumbers(t *testing.T) {
	repo := &mockSaleRepo{}
	svc := NewSaleService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), SaleRequest{SaleDate: "2024-05-01", ItemLabel: "x", Quantity: 0, UnitPrice: 10})
	require.Error(t, err)
	_, err = svc.Create(context.Background(), SaleRequest{SaleDate: "2024-05-01", ItemLabel: "x", Quantity: 1, UnitPrice: -2})
	require.Error(t, err)
	assert.Equal(t, 0, len(repo.sales))
}

func TestSaleServiceSoftDeleteRoundTrip(t *testing.T) {
	repo := &mockSaleRepo{sales: map[string]models.Sale{"s1": {ID: "s1", SaleDate: "2024-05-01", ItemLabel: "Álbum 1", Quantity: 3, UnitPrice: 10, Total: 30, Active: true}}}
	svc := NewSaleService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Deactivate(context.Background(), "s1"))
	assert.False(t, repo.sales["s1"].Active)
	require.NoError(t, svc.Restore(context.Background(), "s1"))
	assert.True(t, repo.sales["s1"].Active)
}
