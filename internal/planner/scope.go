package planner

import "fmt"

// Scope is the Area -> Department -> Machine -> Team selection narrowing
// which employees and shifts are in view. Empty strings mean "not selected".
type Scope struct {
	AreaID       string `json:"area_id"`
	DepartmentID string `json:"department_id"`
	MachineID    string `json:"machine_id"`
	TeamID       string `json:"team_id"`
}

// Catalog supplies the parent references needed to validate a scope.
type Catalog struct {
	HasAreas          bool
	DepartmentArea    map[string]string
	MachineDepartment map[string]string
	TeamDepartment    map[string]string
}

// ScopeError describes why a scope failed validation.
type ScopeError struct {
	Reason string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("invalid scope: %s", e.Reason)
}

// ContextResolver tracks the current selection chain and validates its
// hierarchical consistency against a catalog.
type ContextResolver struct {
	scope   Scope
	catalog Catalog
}

// NewContextResolver builds a resolver over the given catalog.
func NewContextResolver(catalog Catalog) *ContextResolver {
	return &ContextResolver{catalog: catalog}
}

// SelectArea sets the area and clears every descendant selection.
func (r *ContextResolver) SelectArea(id string) {
	r.scope = Scope{AreaID: id}
}

// SelectDepartment sets the department and clears machine and team.
func (r *ContextResolver) SelectDepartment(id string) {
	r.scope.DepartmentID = id
	r.scope.MachineID = ""
	r.scope.TeamID = ""
}

// SelectMachine sets the machine and clears the team.
func (r *ContextResolver) SelectMachine(id string) {
	r.scope.MachineID = id
	r.scope.TeamID = ""
}

// SelectTeam sets the team.
func (r *ContextResolver) SelectTeam(id string) {
	r.scope.TeamID = id
}

// Scope returns the current selection.
func (r *ContextResolver) Scope() Scope {
	return r.scope
}

// SetScope replaces the whole selection at once, as when a scope arrives
// fully formed in a request payload.
func (r *ContextResolver) SetScope(s Scope) {
	r.scope = s
}

// Validate checks the selection chain in order and short-circuits on the
// first failure. Checks: an area is chosen whenever areas exist; a department
// is chosen; a chosen machine belongs to the department; a chosen team
// belongs to the department; the department belongs to the chosen area.
func (r *ContextResolver) Validate() error {
	s := r.scope
	c := r.catalog

	if c.HasAreas && s.AreaID == "" {
		return &ScopeError{Reason: "no area selected"}
	}
	if s.DepartmentID == "" {
		return &ScopeError{Reason: "no department selected"}
	}
	if s.MachineID != "" && c.MachineDepartment[s.MachineID] != s.DepartmentID {
		return &ScopeError{Reason: "machine not in department"}
	}
	if s.TeamID != "" && c.TeamDepartment[s.TeamID] != s.DepartmentID {
		return &ScopeError{Reason: "team not in department"}
	}
	if s.AreaID != "" && c.DepartmentArea[s.DepartmentID] != s.AreaID {
		return &ScopeError{Reason: "department not in area"}
	}
	return nil
}
