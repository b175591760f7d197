// Package quota parses user-entered emission limits and decides which quota
// list a ledger run is checked against.
package quota

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidLimit is matched by every LimitError.
var ErrInvalidLimit = errors.New("invalid emission limit")

// LimitError reports a limit field that could not be parsed. Index is the
// 0-based year index of the field.
type LimitError struct {
	Index int
	Value string
	Msg   string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("emission limit for year %d (%q): %s", e.Index+1, e.Value, e.Msg)
}

// Unwrap allows errors.Is(err, ErrInvalidLimit).
func (e *LimitError) Unwrap() error { return ErrInvalidLimit }

// limitPattern accepts plain decimals and numbers grouped by threes with a
// single kind of separator.
var limitPattern = regexp.MustCompile(`^-?(?:\d+|\d{1,3}(?:,\d{3})+|\d{1,3}(?:_\d{3})+|\d{1,3}(?: \d{3})+)(?:\.\d+)?$`)

// DefaultLimitText is the value pre-filled in every limit field.
const DefaultLimitText = "100,000"

// ParseLimit parses a single limit in kg CO2. Thousands separators (commas,
// underscores or spaces) are accepted when they group digits by three.
func ParseLimit(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, errors.New("value is required")
	}
	if !limitPattern.MatchString(clean) {
		return 0, errors.New("not a number")
	}
	clean = strings.NewReplacer(",", "", "_", "", " ", "").Replace(clean)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsInf(v, 0) {
		return 0, errors.New("must be finite")
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

// ParseLimits parses one limit per plan year.
func ParseLimits(texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i, s := range texts {
		v, err := ParseLimit(s)
		if err != nil {
			return nil, &LimitError{Index: i, Value: s, Msg: err.Error()}
		}
		out[i] = v
	}
	return out, nil
}

// DefaultLimits returns n copies of DefaultLimitText.
func DefaultLimits(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = DefaultLimitText
	}
	return out
}
