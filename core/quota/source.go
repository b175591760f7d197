package quota

import (
	"fmt"
	"slices"
)

// Source selects the quota list used when checking a plan.
type Source string

const (
	// SourceStatic uses the configured quota list and ignores entered limits.
	SourceStatic Source = "static"
	// SourceEntered uses the limits entered with the request.
	SourceEntered Source = "entered"
)

// ParseSource validates a configured source name. An empty name selects
// SourceStatic.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceStatic:
		return SourceStatic, nil
	case SourceEntered:
		return SourceEntered, nil
	default:
		return "", fmt.Errorf("unknown quota source %q", s)
	}
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Quotas []float64
	Source Source
	// Mismatch is set when limits were entered but differ from Quotas.
	Mismatch bool
}

// Resolve picks the quota list for a run. entered may be nil when the caller
// provided no limits, in which case the static list is always used.
func Resolve(src Source, static, entered []float64) (Resolution, error) {
	res := Resolution{Source: src}
	switch {
	case src == SourceEntered && entered != nil:
		res.Quotas = slices.Clone(entered)
	case src == SourceEntered:
		res.Source = SourceStatic
		res.Quotas = slices.Clone(static)
	case src == SourceStatic:
		res.Quotas = slices.Clone(static)
	default:
		return Resolution{}, fmt.Errorf("unknown quota source %q", src)
	}
	res.Mismatch = entered != nil && !slices.Equal(entered, res.Quotas)
	return res, nil
}
