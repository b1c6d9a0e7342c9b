package planner

import (
	"fmt"
	"time"
)

// Session owns the mutable planning state for one view: the current scope,
// the current week, the assignment grid and the plan lifecycle. It is created
// on entering the planning view and discarded on leaving it. All state is
// mutated by a single goroutine; the token exists to discard responses that
// belong to a superseded scope or week, not to synchronise threads.
type Session struct {
	resolver  *ContextResolver
	weekStart time.Time
	grid      *Grid
	lifecycle *Lifecycle
	token     uint64
}

// NewSession builds a session over the given catalog.
func NewSession(catalog Catalog) *Session {
	return &Session{
		resolver:  NewContextResolver(catalog),
		grid:      NewGrid(),
		lifecycle: NewLifecycle(),
	}
}

// Token identifies the current scope+week generation. A load started under an
// older token must be discarded when it completes.
func (s *Session) Token() uint64 {
	return s.token
}

// Resolver exposes the scope selection chain.
func (s *Session) Resolver() *ContextResolver {
	return s.resolver
}

// Grid exposes the assignment grid for read access.
func (s *Session) Grid() *Grid {
	return s.grid
}

// Lifecycle exposes the plan state machine.
func (s *Session) Lifecycle() *Lifecycle {
	return s.lifecycle
}

// WeekStart returns the first day of the current week.
func (s *Session) WeekStart() time.Time {
	return s.weekStart
}

// WeekEnd returns the last day of the current week.
func (s *Session) WeekEnd() time.Time {
	return s.weekStart.AddDate(0, 0, 6)
}

// SetScope replaces the scope, invalidating any in-flight load and clearing
// all plan state. The new scope must be reloaded before further mutation.
func (s *Session) SetScope(scope Scope) {
	s.resolver.SetScope(scope)
	s.invalidate()
}

// SetWeek navigates to a different week, with the same invalidation
// semantics as a scope change.
func (s *Session) SetWeek(weekStart time.Time) {
	s.weekStart = truncateDay(weekStart)
	s.invalidate()
}

func (s *Session) invalidate() {
	s.token++
	s.grid.Clear()
	s.lifecycle.Reset()
}

// Apply installs a loaded week into the session: plan identity and grid
// contents. It reports false and does nothing when the token is stale, i.e.
// the scope or week changed while the load was in flight. The grid is cleared
// before population so repeated loads of the same week are idempotent.
func (s *Session) Apply(token uint64, planID string, entries []Entry) bool {
	if token != s.token {
		return false
	}
	s.grid.Clear()
	for _, e := range entries {
		if !s.grid.Has(e.Day, e.Shift, e.EmployeeID) {
			s.grid.Toggle(e.Day, e.Shift, e.EmployeeID)
		}
	}
	if planID != "" {
		s.lifecycle.MarkSaved(planID)
	} else {
		s.lifecycle.Reset()
	}
	return true
}

// AttemptAssign is the single entry point the UI layer calls per drop or
// click. Dropping an employee onto a cell it already occupies removes it
// (toggle semantics, no validation needed for removal); otherwise the
// assignment is validated and applied only on success.
func (s *Session) AttemptAssign(a Assignee, day string, shift ShiftType) error {
	if !s.lifecycle.CanMutate() {
		return ErrPlanLocked
	}
	if err := s.ensureInWeek(day); err != nil {
		return err
	}
	if s.grid.Has(day, shift, a.ID) {
		s.grid.Remove(day, shift, a.ID)
		return nil
	}
	if err := CanAssign(a, day, shift, s.resolver, s.grid); err != nil {
		return err
	}
	s.grid.Toggle(day, shift, a.ID)
	return nil
}

// Remove deletes an assignment, subject to the lock state only.
func (s *Session) Remove(day string, shift ShiftType, employeeID string) error {
	if !s.lifecycle.CanMutate() {
		return ErrPlanLocked
	}
	s.grid.Remove(day, shift, employeeID)
	return nil
}

func (s *Session) ensureInWeek(day string) error {
	d, err := ParseDay(day)
	if err != nil {
		return &InvalidDayError{Day: day}
	}
	if d.Before(s.weekStart) || d.After(s.WeekEnd()) {
		return fmt.Errorf("date %s outside current week", day)
	}
	return nil
}
