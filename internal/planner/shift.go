// Package planner implements the in-memory shift planning core: the weekly
// assignment grid, scope and availability validation, the plan lock lifecycle
// and rotation-pattern generation. It performs no I/O; persistence and
// transport live in the service and handler layers.
package planner

import (
	"fmt"
	"time"
)

// ShiftType identifies one of the three fixed daily work periods.
type ShiftType string

const (
	ShiftEarly ShiftType = "early"
	ShiftLate  ShiftType = "late"
	ShiftNight ShiftType = "night"
)

// ShiftTypes lists all shift types in canonical order.
var ShiftTypes = [3]ShiftType{ShiftEarly, ShiftLate, ShiftNight}

// Valid reports whether s is a member of the closed enumeration.
func (s ShiftType) Valid() bool {
	switch s {
	case ShiftEarly, ShiftLate, ShiftNight:
		return true
	}
	return false
}

// Code returns the single-letter external code used on the wire.
func (s ShiftType) Code() string {
	switch s {
	case ShiftEarly:
		return "F"
	case ShiftLate:
		return "S"
	case ShiftNight:
		return "N"
	}
	return ""
}

// Window holds the canonical start and end times of a shift.
type Window struct {
	Start string
	End   string
}

// Window returns the canonical clock times for the shift.
func (s ShiftType) Window() Window {
	switch s {
	case ShiftEarly:
		return Window{Start: "06:00", End: "14:00"}
	case ShiftLate:
		return Window{Start: "14:00", End: "22:00"}
	case ShiftNight:
		return Window{Start: "22:00", End: "06:00"}
	}
	return Window{}
}

// ShiftFromCode converts an external single-letter code into a ShiftType.
// The conversion is total over {F,S,N}; anything else is an error.
func ShiftFromCode(code string) (ShiftType, error) {
	switch code {
	case "F":
		return ShiftEarly, nil
	case "S":
		return ShiftLate, nil
	case "N":
		return ShiftNight, nil
	}
	return "", fmt.Errorf("unknown shift code %q", code)
}

// ParseShiftType validates a raw internal shift name.
func ParseShiftType(raw string) (ShiftType, error) {
	s := ShiftType(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown shift type %q", raw)
	}
	return s, nil
}

// DayLayout is the calendar-date key format used throughout the grid.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD grid key.
func ParseDay(raw string) (time.Time, error) {
	return time.Parse(DayLayout, raw)
}

// ValidDay reports whether raw is a well-formed grid date key.
func ValidDay(raw string) bool {
	_, err := ParseDay(raw)
	return err == nil
}

// DayKey formats t as a grid date key.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
