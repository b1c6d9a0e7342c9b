package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		HasAreas:          true,
		DepartmentArea:    map[string]string{"d2": "a1", "d3": "a9"},
		MachineDepartment: map[string]string{"m1": "d2", "m2": "d3"},
		TeamDepartment:    map[string]string{"t1": "d2", "t2": "d3"},
	}
}

func TestValidateConsistentScope(t *testing.T) {
	r := NewContextResolver(testCatalog())
	r.SelectArea("a1")
	r.SelectDepartment("d2")

	assert.NoError(t, r.Validate())
}

func TestValidateDepartmentNotInArea(t *testing.T) {
	r := NewContextResolver(testCatalog())
	r.SelectArea("a1")
	r.SelectDepartment("d3") // d3 belongs to a9

	err := r.Validate()
	require.Error(t, err)
	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, "department not in area", scopeErr.Reason)
}

func TestValidateOrderShortCircuits(t *testing.T) {
	r := NewContextResolver(testCatalog())

	err := r.Validate()
	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, "no area selected", scopeErr.Reason)

	r.SelectArea("a1")
	err = r.Validate()
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, "no department selected", scopeErr.Reason)
}

func TestValidateMachineAndTeamMembership(t *testing.T) {
	r := NewContextResolver(testCatalog())
	r.SelectArea("a1")
	r.SelectDepartment("d2")
	r.SelectMachine("m2") // m2 belongs to d3

	err := r.Validate()
	var scopeErr *ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, "machine not in department", scopeErr.Reason)

	r.SelectMachine("m1")
	r.SelectTeam("t2") // t2 belongs to d3
	err = r.Validate()
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, "team not in department", scopeErr.Reason)
}

func TestValidateNoAreasConfigured(t *testing.T) {
	r := NewContextResolver(Catalog{
		DepartmentArea:    map[string]string{"d1": ""},
		MachineDepartment: map[string]string{},
		TeamDepartment:    map[string]string{},
	})
	r.SelectDepartment("d1")

	assert.NoError(t, r.Validate())
}

func TestSelectionClearsDescendants(t *testing.T) {
	r := NewContextResolver(testCatalog())
	r.SelectArea("a1")
	r.SelectDepartment("d2")
	r.SelectMachine("m1")
	r.SelectTeam("t1")

	r.SelectDepartment("d3")
	scope := r.Scope()
	assert.Equal(t, "a1", scope.AreaID)
	assert.Equal(t, "d3", scope.DepartmentID)
	assert.Empty(t, scope.MachineID)
	assert.Empty(t, scope.TeamID)

	r.SelectArea("a9")
	scope = r.Scope()
	assert.Equal(t, "a9", scope.AreaID)
	assert.Empty(t, scope.DepartmentID)
}
