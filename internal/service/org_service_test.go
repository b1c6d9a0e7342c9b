package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
)

type mockOrgRepo struct {
	areas        []models.Area
	catalog      planner.Catalog
	catalogErr   error
	catalogCalls int
}

func (m *mockOrgRepo) ListAreas(ctx context.Context) ([]models.Area, error) {
	return m.areas, nil
}

func (m *mockOrgRepo) ListDepartments(ctx context.Context, areaID string) ([]models.Department, error) {
	return nil, nil
}

func (m *mockOrgRepo) ListMachines(ctx context.Context, departmentID string) ([]models.Machine, error) {
	return nil, nil
}

func (m *mockOrgRepo) ListTeams(ctx context.Context, departmentID string) ([]models.Team, error) {
	return nil, nil
}

func (m *mockOrgRepo) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	return &models.Team{ID: id}, nil
}

func (m *mockOrgRepo) Catalog(ctx context.Context) (planner.Catalog, error) {
	m.catalogCalls++
	if m.catalogErr != nil {
		return planner.Catalog{}, m.catalogErr
	}
	return m.catalog, nil
}

func TestOrgServiceCatalogCachedWithinTTL(t *testing.T) {
	repo := &mockOrgRepo{catalog: planCatalog()}
	svc := NewOrgService(repo, zap.NewNop())

	first, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	second, err := svc.Catalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.catalogCalls)
}

func TestOrgServiceCatalogServesStaleOnRefreshFailure(t *testing.T) {
	repo := &mockOrgRepo{catalog: planCatalog()}
	svc := NewOrgService(repo, zap.NewNop())
	svc.catalogTTL = 0

	_, err := svc.Catalog(context.Background())
	require.NoError(t, err)

	repo.catalogErr = errors.New("connection refused")
	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Contains(t, catalog.TeamDepartment, "t1")
}

func TestOrgServiceCatalogFirstLoadFailureSurfaces(t *testing.T) {
	repo := &mockOrgRepo{catalogErr: errors.New("connection refused")}
	svc := NewOrgService(repo, zap.NewNop())

	_, err := svc.Catalog(context.Background())
	require.Error(t, err)
}

func TestOrgServiceAreas(t *testing.T) {
	repo := &mockOrgRepo{areas: []models.Area{{ID: "a1", Name: "Production"}}}
	svc := NewOrgService(repo, zap.NewNop())

	areas, err := svc.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "Production", areas[0].Name)
}
