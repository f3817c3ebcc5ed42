package domain

import (
	"errors"
	"time"
)

// UtilityType identifies a metered resource.
type UtilityType string

const (
	UtilityElectricity UtilityType = "electricity"
	UtilityWater       UtilityType = "water"
	UtilityNaturalGas  UtilityType = "naturalgas"
	UtilityVehicleFuel UtilityType = "vehiclefuel"
)

// UtilityTypes lists every valid utility type in display order.
var UtilityTypes = []UtilityType{
	UtilityElectricity,
	UtilityWater,
	UtilityNaturalGas,
	UtilityVehicleFuel,
}

var ErrInvalidUtilityType = errors.New("invalid utility type")
var ErrInvalidQuantity = errors.New("quantity must be non-negative")
var ErrInvalidWindow = errors.New("invalid time period")

// Valid reports whether t is one of the known utility types.
func (t UtilityType) Valid() bool {
	for _, known := range UtilityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UsageRecord is one meter reading. Records are append-only: there is no
// update or delete path.
type UsageRecord struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Type       UtilityType `json:"energy_type"`
	Units      float64     `json:"units_used"`
	RecordedAt time.Time   `json:"date_recorded"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Window is a backward-looking time span measured from "now".
type Window time.Duration

const (
	WindowWeek        = Window(7 * 24 * time.Hour)
	WindowMonth       = Window(30 * 24 * time.Hour)
	WindowThreeMonths = Window(90 * 24 * time.Hour)
	WindowSixMonths   = Window(180 * 24 * time.Hour)
)

// ParseWindow maps the time_period query value to a Window.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "", "7 days":
		return WindowWeek, nil
	case "30 days":
		return WindowMonth, nil
	case "3 months":
		return WindowThreeMonths, nil
	case "6 months":
		return WindowSixMonths, nil
	}
	return 0, ErrInvalidWindow
}

// Start returns the inclusive lower bound of the window ending at now.
func (w Window) Start(now time.Time) time.Time {
	return now.Add(-time.Duration(w))
}
