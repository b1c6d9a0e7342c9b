package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/dto"
	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	"github.com/nordwerk/shiftplan-api/pkg/config"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

type planRepository interface {
	FindByScopeWeek(ctx context.Context, areaID, departmentID, machineID, teamID string, weekStart time.Time) (*models.ShiftPlan, error)
	FindByID(ctx context.Context, id string) (*models.ShiftPlan, error)
	ListEntries(ctx context.Context, planID string) ([]models.ShiftEntry, error)
	CreateWithEntries(ctx context.Context, plan *models.ShiftPlan, entries []models.ShiftEntry) error
	UpdateWithEntries(ctx context.Context, plan *models.ShiftPlan, entries []models.ShiftEntry) error
	Delete(ctx context.Context, id string) error
}

type planEmployeeSource interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type catalogSource interface {
	Catalog(ctx context.Context) (planner.Catalog, error)
}

type rotationWeekSource interface {
	ResolveWeek(ctx context.Context, teamID string, weekStart time.Time) ([]models.RotationHistoryEntry, error)
}

// PlanService orchestrates weekly plan resolution and mutation. Every request
// reconstructs a planning session from persisted state, runs the in-memory
// engine against it and persists the surviving grid. Validation failures
// resolve before anything is written; a failed write surfaces as a
// persistence error and leaves the stored plan untouched.
type PlanService struct {
	repo      planRepository
	employees planEmployeeSource
	catalogs  catalogSource
	rotation  rotationWeekSource
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.RotationConfig
}

// NewPlanService constructs a PlanService.
func NewPlanService(repo planRepository, employees planEmployeeSource, catalogs catalogSource, rotation rotationWeekSource, cfg config.RotationConfig, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		repo:      repo,
		employees: employees,
		catalogs:  catalogs,
		rotation:  rotation,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// LoadWeek resolves the content of one scope+week combination. Precedence
// when rotation is enabled for the team: generated history renders locked;
// without history the week is empty unless fallback is on, in which case the
// manual plan is served and flagged.
func (s *PlanService) LoadWeek(ctx context.Context, query dto.WeekQuery) (*dto.WeekPlanResponse, error) {
	session, weekStart, err := s.openSession(ctx, query.Scope, query.WeekStart)
	if err != nil {
		return nil, err
	}
	scope := session.Resolver().Scope()

	if s.cfg.Enabled && scope.TeamID != "" && s.rotation != nil {
		history, err := s.rotation.ResolveWeek(ctx, scope.TeamID, weekStart)
		if err != nil {
			return nil, err
		}
		if len(history) > 0 {
			entries := make([]dto.ShiftEntryPayload, 0, len(history))
			for _, h := range history {
				entries = append(entries, dto.ShiftEntryPayload{
					Day:        planner.DayKey(h.Day),
					Shift:      h.ShiftCode,
					EmployeeID: h.EmployeeID,
				})
			}
			return &dto.WeekPlanResponse{
				State:  planner.StateSaved.String(),
				Source: dto.WeekSourceRotation,
				Locked: true,
				Shifts: entries,
			}, nil
		}
		if !s.cfg.FallbackEnabled {
			return &dto.WeekPlanResponse{
				State:  planner.StateNoPlan.String(),
				Source: dto.WeekSourceEmpty,
				Shifts: []dto.ShiftEntryPayload{},
			}, nil
		}
	}

	source := dto.WeekSourceManual
	if s.cfg.Enabled && scope.TeamID != "" && s.rotation != nil {
		source = dto.WeekSourceFallback
	}

	plan, entries, err := s.loadPlan(ctx, scope, weekStart)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return &dto.WeekPlanResponse{
			State:  planner.StateNoPlan.String(),
			Source: dto.WeekSourceEmpty,
			Shifts: []dto.ShiftEntryPayload{},
		}, nil
	}

	session.Apply(session.Token(), plan.ID, entries)
	return &dto.WeekPlanResponse{
		State:  session.Lifecycle().State().String(),
		Source: source,
		Locked: !session.Lifecycle().CanMutate(),
		Plan:   plan,
		Shifts: entriesPayload(session.Grid()),
	}, nil
}

// Save creates or replaces the plan of one scope+week from a full grid.
func (s *PlanService) Save(ctx context.Context, req dto.SavePlanRequest) (*models.ShiftPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	session, weekStart, err := s.openSession(ctx, req.Scope, req.WeekStart)
	if err != nil {
		return nil, err
	}
	scope := session.Resolver().Scope()

	governed, err := s.weekGoverned(ctx, scope, weekStart)
	if err != nil {
		return nil, err
	}
	if governed {
		return nil, appErrors.Clone(appErrors.ErrPlanLocked, "week is governed by an active rotation")
	}

	plan, _, err := s.loadPlan(ctx, scope, weekStart)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		lifecycle := planner.LifecycleFor(plan.ID)
		if req.EditMode {
			if err := lifecycle.Unlock(); err != nil {
				return nil, appErrors.Clone(appErrors.ErrPlanLocked, err.Error())
			}
		}
		if !lifecycle.CanMutate() {
			return nil, appErrors.Clone(appErrors.ErrPlanLocked, "")
		}
	}

	assignees := map[string]planner.Assignee{}
	for _, entry := range req.Shifts {
		shift, err := planner.ShiftFromCode(entry.Shift)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown shift code")
		}
		if session.Grid().Has(entry.Day, shift, entry.EmployeeID) {
			continue
		}
		assignee, err := s.assignee(ctx, assignees, entry.EmployeeID)
		if err != nil {
			return nil, err
		}
		if err := session.AttemptAssign(assignee, entry.Day, shift); err != nil {
			return nil, translatePlannerError(err)
		}
	}

	name := strings.TrimSpace(req.Name)
	notes := strings.TrimSpace(req.Notes)
	stored := planEntries(session.Grid())

	if plan == nil {
		plan = &models.ShiftPlan{
			AreaID:       optionalID(scope.AreaID),
			DepartmentID: optionalID(scope.DepartmentID),
			MachineID:    optionalID(scope.MachineID),
			TeamID:       optionalID(scope.TeamID),
			WeekStart:    weekStart,
			WeekEnd:      weekStart.AddDate(0, 0, 6),
			Name:         name,
			Notes:        notes,
		}
		if err := s.repo.CreateWithEntries(ctx, plan, stored); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save plan")
		}
	} else {
		plan.Name = name
		plan.Notes = notes
		plan.WeekEnd = weekStart.AddDate(0, 0, 6)
		if err := s.repo.UpdateWithEntries(ctx, plan, stored); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save plan")
		}
	}

	session.Lifecycle().MarkSaved(plan.ID)
	return plan, nil
}

// Get returns a plan with its entries.
func (s *PlanService) Get(ctx context.Context, id string) (*models.ShiftPlan, []models.ShiftEntry, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	entries, err := s.repo.ListEntries(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan entries")
	}
	return plan, entries, nil
}

// Delete removes a plan, returning the week to NoPlan.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete plan")
	}
	return nil
}

// Unlock verifies a plan exists and confirms the transition to editing. The
// edit flag then travels with subsequent mutation requests.
func (s *PlanService) Unlock(ctx context.Context, id string) (string, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	lifecycle := planner.LifecycleFor(plan.ID)
	if err := lifecycle.Unlock(); err != nil {
		return "", appErrors.Clone(appErrors.ErrPlanLocked, err.Error())
	}
	return lifecycle.State().String(), nil
}

// Assign is the single entry point per drop or click. Dropping onto an
// occupied own cell removes the assignment (toggle semantics); everything
// else is validated before the grid changes and persisted afterwards.
func (s *PlanService) Assign(ctx context.Context, req dto.AssignRequest) (*dto.AssignResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assign payload")
	}

	session, weekStart, plan, err := s.openMutableSession(ctx, req.Scope, req.WeekStart, req.EditMode)
	if err != nil {
		return nil, err
	}

	shift, err := planner.ShiftFromCode(req.Shift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown shift code")
	}
	assignee, err := s.assignee(ctx, map[string]planner.Assignee{}, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := session.AttemptAssign(assignee, req.Day, shift); err != nil {
		return nil, translatePlannerError(err)
	}

	if err := s.persistGrid(ctx, session, plan, weekStart); err != nil {
		return nil, err
	}

	return &dto.AssignResponse{
		Day:       req.Day,
		Shift:     req.Shift,
		Assigned:  session.Grid().Has(req.Day, shift, req.EmployeeID),
		Occupants: session.Grid().Get(req.Day, shift),
	}, nil
}

// Unassign removes one assignment, subject to the lock state only.
func (s *PlanService) Unassign(ctx context.Context, req dto.AssignRequest) (*dto.AssignResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unassign payload")
	}

	session, weekStart, plan, err := s.openMutableSession(ctx, req.Scope, req.WeekStart, req.EditMode)
	if err != nil {
		return nil, err
	}

	shift, err := planner.ShiftFromCode(req.Shift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown shift code")
	}

	if err := session.Remove(req.Day, shift, req.EmployeeID); err != nil {
		return nil, translatePlannerError(err)
	}

	// Nothing to persist when no plan exists yet.
	if plan != nil {
		if err := s.persistGrid(ctx, session, plan, weekStart); err != nil {
			return nil, err
		}
	}

	return &dto.AssignResponse{
		Day:       req.Day,
		Shift:     req.Shift,
		Assigned:  false,
		Occupants: session.Grid().Get(req.Day, shift),
	}, nil
}

// Autofill replicates one assignment across the week's free weekday cells.
func (s *PlanService) Autofill(ctx context.Context, req dto.AutofillRequest) (*dto.AutofillResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid autofill payload")
	}

	session, weekStart, plan, err := s.openMutableSession(ctx, req.Scope, req.WeekStart, req.EditMode)
	if err != nil {
		return nil, err
	}

	shift, err := planner.ShiftFromCode(req.Shift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown shift code")
	}
	assignee, err := s.assignee(ctx, map[string]planner.Assignee{}, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	filled, err := session.Autofill(assignee, req.OriginDay, shift)
	if err != nil {
		return nil, translatePlannerError(err)
	}

	if len(filled) > 0 {
		if err := s.persistGrid(ctx, session, plan, weekStart); err != nil {
			return nil, err
		}
	}
	return &dto.AutofillResponse{FilledDays: filled}, nil
}

// openSession builds a validated planning session for one scope and week.
func (s *PlanService) openSession(ctx context.Context, scopePayload dto.ScopePayload, weekStartRaw string) (*planner.Session, time.Time, error) {
	weekStart, err := parseWeekStart(weekStartRaw)
	if err != nil {
		return nil, time.Time{}, err
	}

	catalog, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	session := planner.NewSession(catalog)
	session.SetScope(planner.Scope{
		AreaID:       scopePayload.AreaID,
		DepartmentID: scopePayload.DepartmentID,
		MachineID:    scopePayload.MachineID,
		TeamID:       scopePayload.TeamID,
	})
	session.SetWeek(weekStart)

	if err := session.Resolver().Validate(); err != nil {
		return nil, time.Time{}, translatePlannerError(err)
	}
	return session, weekStart, nil
}

// weekGoverned reports whether generated rotation history exists for the
// scope's team week. Governed weeks render locked and reject every manual
// mutation path.
func (s *PlanService) weekGoverned(ctx context.Context, scope planner.Scope, weekStart time.Time) (bool, error) {
	if !s.cfg.Enabled || scope.TeamID == "" || s.rotation == nil {
		return false, nil
	}
	history, err := s.rotation.ResolveWeek(ctx, scope.TeamID, weekStart)
	if err != nil {
		return false, err
	}
	return len(history) > 0, nil
}

// openMutableSession rejects rotation-governed weeks, loads the stored plan
// into the session and applies the edit flag, so the lifecycle gate sees the
// true lock state.
func (s *PlanService) openMutableSession(ctx context.Context, scopePayload dto.ScopePayload, weekStartRaw string, editMode bool) (*planner.Session, time.Time, *models.ShiftPlan, error) {
	session, weekStart, err := s.openSession(ctx, scopePayload, weekStartRaw)
	if err != nil {
		return nil, time.Time{}, nil, err
	}

	governed, err := s.weekGoverned(ctx, session.Resolver().Scope(), weekStart)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	if governed {
		return nil, time.Time{}, nil, appErrors.Clone(appErrors.ErrPlanLocked, "week is governed by an active rotation")
	}

	plan, entries, err := s.loadPlan(ctx, session.Resolver().Scope(), weekStart)
	if err != nil {
		return nil, time.Time{}, nil, err
	}
	if plan != nil {
		session.Apply(session.Token(), plan.ID, entries)
		if editMode {
			if err := session.Lifecycle().Unlock(); err != nil {
				return nil, time.Time{}, nil, appErrors.Clone(appErrors.ErrPlanLocked, err.Error())
			}
		}
	}
	return session, weekStart, plan, nil
}

func (s *PlanService) loadPlan(ctx context.Context, scope planner.Scope, weekStart time.Time) (*models.ShiftPlan, []planner.Entry, error) {
	plan, err := s.repo.FindByScopeWeek(ctx, scope.AreaID, scope.DepartmentID, scope.MachineID, scope.TeamID, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	stored, err := s.repo.ListEntries(ctx, plan.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan entries")
	}

	entries := make([]planner.Entry, 0, len(stored))
	for _, e := range stored {
		shift, err := planner.ShiftFromCode(e.ShiftCode)
		if err != nil {
			s.logger.Warn("skipping entry with unknown shift code",
				zap.String("plan_id", plan.ID), zap.String("code", e.ShiftCode))
			continue
		}
		entries = append(entries, planner.Entry{Day: planner.DayKey(e.Day), Shift: shift, EmployeeID: e.EmployeeID})
	}
	return plan, entries, nil
}

func (s *PlanService) persistGrid(ctx context.Context, session *planner.Session, plan *models.ShiftPlan, weekStart time.Time) error {
	stored := planEntries(session.Grid())
	scope := session.Resolver().Scope()

	if plan == nil {
		plan = &models.ShiftPlan{
			AreaID:       optionalID(scope.AreaID),
			DepartmentID: optionalID(scope.DepartmentID),
			MachineID:    optionalID(scope.MachineID),
			TeamID:       optionalID(scope.TeamID),
			WeekStart:    weekStart,
			WeekEnd:      weekStart.AddDate(0, 0, 6),
			Name:         fmt.Sprintf("Week of %s", planner.DayKey(weekStart)),
		}
		if err := s.repo.CreateWithEntries(ctx, plan, stored); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist assignments")
		}
		session.Lifecycle().MarkSaved(plan.ID)
		return nil
	}

	if err := s.repo.UpdateWithEntries(ctx, plan, stored); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist assignments")
	}
	return nil
}

func (s *PlanService) assignee(ctx context.Context, cache map[string]planner.Assignee, employeeID string) (planner.Assignee, error) {
	if a, ok := cache[employeeID]; ok {
		return a, nil
	}
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return planner.Assignee{}, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return planner.Assignee{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	a := employee.Assignee()
	cache[employeeID] = a
	return a, nil
}

// parseWeekStart accepts any day and normalizes it to the Monday of its week.
func parseWeekStart(raw string) (time.Time, error) {
	day, err := planner.ParseDay(raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid week start date")
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset), nil
}

func entriesPayload(grid *planner.Grid) []dto.ShiftEntryPayload {
	entries := grid.Entries()
	payload := make([]dto.ShiftEntryPayload, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, dto.ShiftEntryPayload{Day: e.Day, Shift: e.Shift.Code(), EmployeeID: e.EmployeeID})
	}
	return payload
}

func planEntries(grid *planner.Grid) []models.ShiftEntry {
	entries := grid.Entries()
	stored := make([]models.ShiftEntry, 0, len(entries))
	for _, e := range entries {
		day, err := planner.ParseDay(e.Day)
		if err != nil {
			continue
		}
		stored = append(stored, models.ShiftEntry{Day: day, ShiftCode: e.Shift.Code(), EmployeeID: e.EmployeeID})
	}
	return stored
}

// translatePlannerError maps engine failures onto the HTTP error taxonomy.
func translatePlannerError(err error) error {
	var scopeErr *planner.ScopeError
	if errors.As(err, &scopeErr) {
		return appErrors.Clone(appErrors.ErrInvalidScope, scopeErr.Reason)
	}
	var unavailable *planner.UnavailableError
	if errors.As(err, &unavailable) {
		return appErrors.Clone(appErrors.ErrEmployeeUnavailable, unavailable.Error())
	}
	var duplicate *planner.DuplicateShiftError
	if errors.As(err, &duplicate) {
		return appErrors.Clone(appErrors.ErrDuplicateShift, duplicate.Error())
	}
	var invalidDay *planner.InvalidDayError
	if errors.As(err, &invalidDay) {
		return appErrors.Clone(appErrors.ErrValidation, invalidDay.Error())
	}
	if errors.Is(err, planner.ErrPlanLocked) {
		return appErrors.Clone(appErrors.ErrPlanLocked, "")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
}
