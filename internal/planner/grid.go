package planner

import "sort"

// Entry is one flattened grid cell occupant, used when exchanging grid
// contents with the persistence layer.
type Entry struct {
	Day        string
	Shift      ShiftType
	EmployeeID string
}

// Grid is the per-week assignment store: date key -> shift type -> employee
// id set. It is a plain keyed container; business rules (availability,
// double-booking) are enforced by CanAssign in front of every mutation.
type Grid struct {
	days map[string]map[ShiftType]map[string]struct{}
}

// NewGrid returns an empty assignment grid.
func NewGrid() *Grid {
	return &Grid{days: make(map[string]map[ShiftType]map[string]struct{})}
}

// Get returns the employee ids assigned to (day, shift), sorted for
// deterministic output. Invalid keys yield an empty slice, never an error.
func (g *Grid) Get(day string, shift ShiftType) []string {
	if !ValidDay(day) || !shift.Valid() {
		return []string{}
	}
	cell := g.days[day][shift]
	ids := make([]string, 0, len(cell))
	for id := range cell {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Set replaces the occupant set of (day, shift). Invalid keys are a no-op.
func (g *Grid) Set(day string, shift ShiftType, employeeIDs []string) {
	if !ValidDay(day) || !shift.Valid() {
		return
	}
	cell := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		if id != "" {
			cell[id] = struct{}{}
		}
	}
	if g.days[day] == nil {
		g.days[day] = make(map[ShiftType]map[string]struct{})
	}
	g.days[day][shift] = cell
}

// Toggle adds the employee to the cell when absent and removes it when
// present. It reports whether the employee is assigned afterwards.
func (g *Grid) Toggle(day string, shift ShiftType, employeeID string) bool {
	if !ValidDay(day) || !shift.Valid() || employeeID == "" {
		return false
	}
	if g.Has(day, shift, employeeID) {
		g.Remove(day, shift, employeeID)
		return false
	}
	if g.days[day] == nil {
		g.days[day] = make(map[ShiftType]map[string]struct{})
	}
	if g.days[day][shift] == nil {
		g.days[day][shift] = make(map[string]struct{})
	}
	g.days[day][shift][employeeID] = struct{}{}
	return true
}

// Remove deletes the employee from the cell if present.
func (g *Grid) Remove(day string, shift ShiftType, employeeID string) {
	if !ValidDay(day) || !shift.Valid() {
		return
	}
	if cell := g.days[day][shift]; cell != nil {
		delete(cell, employeeID)
	}
}

// Has reports whether the employee occupies the cell.
func (g *Grid) Has(day string, shift ShiftType, employeeID string) bool {
	if !ValidDay(day) || !shift.Valid() {
		return false
	}
	_, ok := g.days[day][shift][employeeID]
	return ok
}

// ShiftFor returns the shift type the employee holds on the given day, if any.
func (g *Grid) ShiftFor(day string, employeeID string) (ShiftType, bool) {
	if !ValidDay(day) {
		return "", false
	}
	for _, shift := range ShiftTypes {
		if _, ok := g.days[day][shift][employeeID]; ok {
			return shift, true
		}
	}
	return "", false
}

// Clear empties the grid. Reloading a week clears first so repeated loads
// never accumulate duplicates.
func (g *Grid) Clear() {
	g.days = make(map[string]map[ShiftType]map[string]struct{})
}

// Days returns all date keys with at least one occupant, sorted.
func (g *Grid) Days() []string {
	days := make([]string, 0, len(g.days))
	for day, shifts := range g.days {
		occupied := false
		for _, cell := range shifts {
			if len(cell) > 0 {
				occupied = true
				break
			}
		}
		if occupied {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// Entries flattens the grid into a deterministic list of occupied cells.
func (g *Grid) Entries() []Entry {
	var entries []Entry
	for _, day := range g.Days() {
		for _, shift := range ShiftTypes {
			for _, id := range g.Get(day, shift) {
				entries = append(entries, Entry{Day: day, Shift: shift, EmployeeID: id})
			}
		}
	}
	return entries
}
