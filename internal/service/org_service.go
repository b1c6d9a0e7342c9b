package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type orgRepository interface {
	ListAreas(ctx context.Context) ([]models.Area, error)
	ListDepartments(ctx context.Context, areaID string) ([]models.Department, error)
	ListMachines(ctx context.Context, departmentID string) ([]models.Machine, error)
	ListTeams(ctx context.Context, departmentID string) ([]models.Team, error)
	FindTeam(ctx context.Context, id string) (*models.Team, error)
	Catalog(ctx context.Context) (planner.Catalog, error)
}

// OrgService serves the organizational hierarchy behind scope selection.
// The catalog is cached in-process for a short window because every plan
// mutation re-validates scope against it.
type OrgService struct {
	repo   orgRepository
	logger *zap.Logger

	mu         sync.Mutex
	catalog    planner.Catalog
	catalogAge time.Time
	catalogTTL time.Duration
}

// NewOrgService constructs an OrgService.
func NewOrgService(repo orgRepository, logger *zap.Logger) *OrgService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrgService{repo: repo, logger: logger, catalogTTL: time.Minute}
}

// Areas lists all areas.
func (s *OrgService) Areas(ctx context.Context) ([]models.Area, error) {
	areas, err := s.repo.ListAreas(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list areas")
	}
	return areas, nil
}

// Departments lists departments, filtered to an area when given.
func (s *OrgService) Departments(ctx context.Context, areaID string) ([]models.Department, error) {
	departments, err := s.repo.ListDepartments(ctx, areaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Machines lists machines, filtered to a department when given.
func (s *OrgService) Machines(ctx context.Context, departmentID string) ([]models.Machine, error) {
	machines, err := s.repo.ListMachines(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list machines")
	}
	return machines, nil
}

// Teams lists teams, filtered to a department when given.
func (s *OrgService) Teams(ctx context.Context, departmentID string) ([]models.Team, error) {
	teams, err := s.repo.ListTeams(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}
	return teams, nil
}

// Team fetches one team.
func (s *OrgService) Team(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.repo.FindTeam(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}
	return team, nil
}

// Catalog returns the parent mapping used for scope validation, refreshed at
// most once per TTL.
func (s *OrgService) Catalog(ctx context.Context) (planner.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalogAge.IsZero() && time.Since(s.catalogAge) < s.catalogTTL {
		return s.catalog, nil
	}

	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		if s.catalogAge.IsZero() {
			return planner.Catalog{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load org catalog")
		}
		s.logger.Warn("catalog refresh failed, serving stale copy", zap.Error(err))
		return s.catalog, nil
	}

	s.catalog = catalog
	s.catalogAge = time.Now()
	return catalog, nil
}
