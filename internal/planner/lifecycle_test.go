package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleInitialState(t *testing.T) {
	l := NewLifecycle()
	assert.Equal(t, StateNoPlan, l.State())
	assert.True(t, l.CanMutate())
	assert.Empty(t, l.PlanID())
}

func TestLifecycleForExistingPlan(t *testing.T) {
	l := LifecycleFor("p1")
	assert.Equal(t, StateSaved, l.State())
	assert.False(t, l.CanMutate())

	assert.Equal(t, StateNoPlan, LifecycleFor("").State())
}

func TestLifecycleSaveUnlockSave(t *testing.T) {
	l := NewLifecycle()

	l.MarkSaved("p1")
	assert.Equal(t, StateSaved, l.State())
	assert.False(t, l.CanMutate())

	require.NoError(t, l.Unlock())
	assert.Equal(t, StateEditing, l.State())
	assert.True(t, l.CanMutate())

	l.MarkSaved("p1")
	assert.Equal(t, StateSaved, l.State())
}

func TestLifecycleUnlockRequiresSaved(t *testing.T) {
	l := NewLifecycle()
	assert.ErrorIs(t, l.Unlock(), ErrNotUnlockable)

	l.MarkSaved("p1")
	require.NoError(t, l.Unlock())
	assert.ErrorIs(t, l.Unlock(), ErrNotUnlockable)
}

func TestLifecycleReset(t *testing.T) {
	l := LifecycleFor("p1")
	require.NoError(t, l.Unlock())

	l.Reset()
	assert.Equal(t, StateNoPlan, l.State())
	assert.Empty(t, l.PlanID())
	assert.True(t, l.CanMutate())
}
