package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	"github.com/nordwerk/shiftplan-api/pkg/config"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type rotationRepository interface {
	ListByTeam(ctx context.Context, teamID string) ([]models.RotationPattern, error)
	FindByID(ctx context.Context, id string) (*models.RotationPattern, error)
	HasOverlap(ctx context.Context, teamID string, startsAt time.Time, endsAt *time.Time, excludeID string) (bool, error)
	Create(ctx context.Context, pattern *models.RotationPattern) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	ReplaceAssignments(ctx context.Context, patternID string, assignments []models.RotationAssignment) error
	ListAssignments(ctx context.Context, patternID string) ([]models.RotationAssignment, error)
	ReplaceHistory(ctx context.Context, patternID string, from, to time.Time, entries []models.RotationHistoryEntry) error
	ListHistory(ctx context.Context, teamID string, from, to time.Time) ([]models.RotationHistoryEntry, error)
	DeleteHistoryByPattern(ctx context.Context, patternID string) error
}

type rotationTeamSource interface {
	FindTeam(ctx context.Context, id string) (*models.Team, error)
}

type rotationMetrics interface {
	RecordCacheLookup(hit bool)
}

// RotationService manages rotation patterns and the generated history. The
// per-week resolution result is cached in Redis under a per-team version so
// regeneration invalidates in one INCR instead of a key scan.
type RotationService struct {
	repo      rotationRepository
	teams     rotationTeamSource
	cache     *redis.Client
	metrics   rotationMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.RotationConfig
	now       func() time.Time
}

// NewRotationService constructs a RotationService. The cache client may be
// nil, in which case every resolution hits the database.
func NewRotationService(repo rotationRepository, teams rotationTeamSource, cache *redis.Client, metrics rotationMetrics, cfg config.RotationConfig, validate *validator.Validate, logger *zap.Logger) *RotationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &RotationService{
		repo:      repo,
		teams:     teams,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Patterns lists the patterns declared for a team.
func (s *RotationService) Patterns(ctx context.Context, teamID string) ([]models.RotationPattern, error) {
	patterns, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list patterns")
	}
	return patterns, nil
}

// CreatePattern declares a rotation rule. The validity window is capped to
// December 31 of the current year and may not overlap another enabled
// pattern of the same team.
func (s *RotationService) CreatePattern(ctx context.Context, req dto.CreatePatternRequest) (*models.RotationPattern, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pattern payload")
	}
	if _, err := s.teams.FindTeam(ctx, req.TeamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}

	startsAt, err := planner.ParseDay(req.StartsAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pattern start date")
	}
	var endsAt *time.Time
	if req.EndsAt != nil {
		parsed, err := planner.ParseDay(*req.EndsAt)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pattern end date")
		}
		if parsed.Before(startsAt) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pattern end before start")
		}
		endsAt = &parsed
	}

	// A pattern never generates into the next calendar year.
	yearEnd := planner.Pattern{EndsAt: endsAt}.EffectiveEnd(s.now())
	if endsAt == nil || endsAt.After(yearEnd) {
		endsAt = &yearEnd
	}

	overlaps, err := s.repo.HasOverlap(ctx, req.TeamID, startsAt, endsAt, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pattern overlap")
	}
	if overlaps {
		return nil, appErrors.Clone(appErrors.ErrRotationOverlap, "")
	}

	pattern := &models.RotationPattern{
		TeamID:           req.TeamID,
		Kind:             req.Kind,
		SkipWeekends:     req.SkipWeekends,
		IgnoreNightShift: req.IgnoreNightShift,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		Enabled:          true,
	}
	if err := s.repo.Create(ctx, pattern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create pattern")
	}
	return pattern, nil
}

// AssignGroups replaces the employee/shift-group mapping of a pattern.
func (s *RotationService) AssignGroups(ctx context.Context, patternID string, req dto.AssignGroupsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignments payload")
	}
	if _, err := s.pattern(ctx, patternID); err != nil {
		return err
	}

	assignments := make([]models.RotationAssignment, 0, len(req.Assignments))
	seen := map[string]struct{}{}
	for _, a := range req.Assignments {
		if _, dup := seen[a.EmployeeID]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "employee mapped to more than one shift group")
		}
		seen[a.EmployeeID] = struct{}{}
		if _, err := planner.ShiftFromCode(a.Shift); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown shift code")
		}
		assignments = append(assignments, models.RotationAssignment{EmployeeID: a.EmployeeID, ShiftCode: a.Shift})
	}

	if err := s.repo.ReplaceAssignments(ctx, patternID, assignments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save assignments")
	}
	return nil
}

// Generate runs the rotation engine over a window and persists the result,
// replacing prior generated entries in the same window.
func (s *RotationService) Generate(ctx context.Context, patternID string, req dto.GenerateHistoryRequest) (*dto.GenerateHistoryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}
	pattern, err := s.pattern(ctx, patternID)
	if err != nil {
		return nil, err
	}
	if !pattern.Enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pattern is disabled")
	}

	from, err := planner.ParseDay(req.From)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window start")
	}
	to, err := planner.ParseDay(req.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window end")
	}

	assignments, err := s.repo.ListAssignments(ctx, patternID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pattern has no shift group assignments")
	}

	engine, err := enginePattern(pattern, assignments)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateWindow(from, to); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation window")
	}

	// Clamp to the pattern's validity window.
	if from.Before(pattern.StartsAt) {
		from = pattern.StartsAt
	}
	end := engine.EffectiveEnd(s.now())
	if to.After(end) {
		to = end
	}

	generated := planner.Generate(engine, from, to)
	entries := make([]models.RotationHistoryEntry, 0, len(generated))
	for _, g := range generated {
		day, err := planner.ParseDay(g.Day)
		if err != nil {
			continue
		}
		entries = append(entries, models.RotationHistoryEntry{
			TeamID:     pattern.TeamID,
			Day:        day,
			ShiftCode:  g.Shift.Code(),
			EmployeeID: g.EmployeeID,
		})
	}

	if err := s.repo.ReplaceHistory(ctx, patternID, from, to, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist history")
	}
	s.invalidateTeam(ctx, pattern.TeamID)

	return &dto.GenerateHistoryResponse{
		PatternID: patternID,
		Generated: len(entries),
		From:      planner.DayKey(from),
		To:        planner.DayKey(to),
	}, nil
}

// History lists generated entries for a team within a window.
func (s *RotationService) History(ctx context.Context, teamID string, from, to time.Time) ([]models.RotationHistoryEntry, error) {
	entries, err := s.repo.ListHistory(ctx, teamID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	return entries, nil
}

// Disable turns a pattern off and deletes its generated history, so stale
// rotations stop shadowing manual plans.
func (s *RotationService) Disable(ctx context.Context, patternID string) error {
	pattern, err := s.pattern(ctx, patternID)
	if err != nil {
		return err
	}
	if err := s.repo.SetEnabled(ctx, patternID, false); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to disable pattern")
	}
	if err := s.repo.DeleteHistoryByPattern(ctx, patternID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete history")
	}
	s.invalidateTeam(ctx, pattern.TeamID)
	return nil
}

// ResolveWeek returns the generated entries covering one week for a team,
// serving from cache when possible.
func (s *RotationService) ResolveWeek(ctx context.Context, teamID string, weekStart time.Time) ([]models.RotationHistoryEntry, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)

	key, ok := s.weekKey(ctx, teamID, weekStart)
	if ok {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var entries []models.RotationHistoryEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				s.recordCacheLookup(true)
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("rotation cache read failed", zap.Error(err))
		}
		s.recordCacheLookup(false)
	}

	entries, err := s.repo.ListHistory(ctx, teamID, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve rotation week")
	}

	if ok {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL).Err(); err != nil {
				s.logger.Warn("rotation cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}

func (s *RotationService) pattern(ctx context.Context, id string) (*models.RotationPattern, error) {
	pattern, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pattern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pattern")
	}
	return pattern, nil
}

// weekKey builds the versioned cache key for a team week. Returns false when
// caching is unavailable.
func (s *RotationService) weekKey(ctx context.Context, teamID string, weekStart time.Time) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	version, err := s.cache.Get(ctx, s.versionKey(teamID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("rotation cache version read failed", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("rotation:%s:v%d:week:%s", teamID, version, planner.DayKey(weekStart)), true
}

func (s *RotationService) invalidateTeam(ctx context.Context, teamID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, s.versionKey(teamID)).Err(); err != nil {
		s.logger.Warn("rotation cache invalidation failed", zap.Error(err))
	}
}

func (s *RotationService) versionKey(teamID string) string {
	return "rotation:ver:" + teamID
}

func (s *RotationService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func enginePattern(pattern *models.RotationPattern, assignments []models.RotationAssignment) (planner.Pattern, error) {
	kind := planner.PatternKind(pattern.Kind)
	if !kind.Valid() {
		return planner.Pattern{}, appErrors.Clone(appErrors.ErrValidation, "unknown pattern kind")
	}
	groups := make(map[string]planner.ShiftType, len(assignments))
	for _, a := range assignments {
		shift, err := planner.ShiftFromCode(a.ShiftCode)
		if err != nil {
			return planner.Pattern{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "stored assignment has unknown shift code")
		}
		groups[a.EmployeeID] = shift
	}
	return planner.Pattern{
		Kind:             kind,
		SkipWeekends:     pattern.SkipWeekends,
		IgnoreNightShift: pattern.IgnoreNightShift,
		Groups:           groups,
		StartsAt:         pattern.StartsAt,
		EndsAt:           pattern.EndsAt,
	}, nil
}
