package planner

import "errors"

// PlanState is the lifecycle position of the current week's plan.
type PlanState int

const (
	// StateNoPlan means no persisted plan matches the current scope and week.
	StateNoPlan PlanState = iota
	// StateSaved means the plan is persisted and read-only.
	StateSaved
	// StateEditing means the plan is persisted and unlocked for mutation.
	StateEditing
)

func (s PlanState) String() string {
	switch s {
	case StateSaved:
		return "saved"
	case StateEditing:
		return "editing"
	default:
		return "no_plan"
	}
}

// ErrPlanLocked rejects mutations while the plan is saved and locked.
var ErrPlanLocked = errors.New("plan is locked, enter edit mode first")

// ErrNotUnlockable rejects an unlock outside the saved state.
var ErrNotUnlockable = errors.New("only a saved plan can be unlocked")

// Lifecycle is the tagged state machine governing when the grid may be
// mutated and when it must be persisted or reloaded. Transition methods are
// the only way to change state.
type Lifecycle struct {
	state  PlanState
	planID string
}

// NewLifecycle starts in NoPlan.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateNoPlan}
}

// LifecycleFor starts in Saved when a plan id is known, else NoPlan.
func LifecycleFor(planID string) *Lifecycle {
	if planID == "" {
		return NewLifecycle()
	}
	return &Lifecycle{state: StateSaved, planID: planID}
}

// State returns the current state.
func (l *Lifecycle) State() PlanState {
	return l.state
}

// PlanID returns the persisted plan id, empty in NoPlan.
func (l *Lifecycle) PlanID() string {
	return l.planID
}

// CanMutate reports whether grid mutation is currently permitted. Only
// NoPlan and Editing allow it; Saved is strictly read-only.
func (l *Lifecycle) CanMutate() bool {
	return l.state == StateNoPlan || l.state == StateEditing
}

// MarkSaved records a successful create or update and locks the plan.
func (l *Lifecycle) MarkSaved(planID string) {
	l.state = StateSaved
	l.planID = planID
}

// Unlock transitions Saved to Editing on explicit user action.
func (l *Lifecycle) Unlock() error {
	if l.state != StateSaved {
		return ErrNotUnlockable
	}
	l.state = StateEditing
	return nil
}

// Reset discards plan identity, as when scope or week changes or the plan is
// deleted from the backing store.
func (l *Lifecycle) Reset() {
	l.state = StateNoPlan
	l.planID = ""
}
