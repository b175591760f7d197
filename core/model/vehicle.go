package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Size classifies a vehicle by its footprint.
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// String returns the display name of the size.
func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "Small"
	case SizeMedium:
		return "Medium"
	case SizeLarge:
		return "Large"
	default:
		return "unknown"
	}
}

// ParseSize converts a display name into a Size. Matching ignores case and
// surrounding spaces.
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	default:
		return 0, fmt.Errorf("unknown vehicle size %q", s)
	}
}

// MarshalText encodes the size as its display name.
func (s Size) MarshalText() ([]byte, error) {
	if s < SizeSmall || s > SizeLarge {
		return nil, fmt.Errorf("invalid vehicle size %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a display name.
func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// VehicleRecord describes one vehicle inside a plan year.
type VehicleRecord struct {
	ID   string `json:"vehicle_id"`
	Type string `json:"vehicle_type"`
	Size Size   `json:"size"`
	// Cost is expressed in MYR.
	Cost decimal.Decimal `json:"cost_myr"`
	// Emissions is the yearly footprint in kg CO2.
	Emissions float64 `json:"emissions_kg_co2"`
}

// NewVehicle builds a record from plain numeric values.
func NewVehicle(id, vehicleType string, size Size, costMYR int64, emissionsKg float64) VehicleRecord {
	return VehicleRecord{
		ID:        id,
		Type:      vehicleType,
		Size:      size,
		Cost:      decimal.NewFromInt(costMYR),
		Emissions: emissionsKg,
	}
}

// Validate checks that cost and emissions are non-negative and finite.
func (v VehicleRecord) Validate() error {
	if v.Cost.IsNegative() {
		return fmt.Errorf("vehicle %s: cost must not be negative", v.ID)
	}
	if math.IsNaN(v.Emissions) || math.IsInf(v.Emissions, 0) {
		return fmt.Errorf("vehicle %s: emissions must be finite", v.ID)
	}
	if v.Emissions < 0 {
		return fmt.Errorf("vehicle %s: emissions must not be negative", v.ID)
	}
	return nil
}
