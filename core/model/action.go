package model

import (
	"fmt"
	"strings"
)

// Action is the decision taken for a vehicle in a given plan year.
type Action int

const (
	ActionBuy Action = iota
	ActionRetain
	ActionDispose
)

// Actions lists every action in reporting order.
var Actions = [...]Action{ActionBuy, ActionRetain, ActionDispose}

// String returns the lower-case key used in plans and APIs.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionRetain:
		return "retain"
	case ActionDispose:
		return "dispose"
	default:
		return "unknown"
	}
}

// Title returns the capitalized label used in exports and pages.
func (a Action) Title() string {
	switch a {
	case ActionBuy:
		return "Buy"
	case ActionRetain:
		return "Retain"
	case ActionDispose:
		return "Dispose"
	default:
		return "Unknown"
	}
}

// ParseAction converts a plan key into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return ActionBuy, nil
	case "retain":
		return ActionRetain, nil
	case "dispose":
		return ActionDispose, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalText encodes the action as its plan key.
func (a Action) MarshalText() ([]byte, error) {
	if a < ActionBuy || a > ActionDispose {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a plan key.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
