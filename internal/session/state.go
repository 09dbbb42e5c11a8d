package session

import (
	"golang.org/x/xerrors"
)

// Selector names one of the three logical image slots.
type Selector int

const (
	SelectorPrevious Selector = iota
	SelectorNext
	SelectorDifference
)

func (s Selector) String() string {
	switch s {
	case SelectorPrevious:
		return "previous"
	case SelectorNext:
		return "next"
	case SelectorDifference:
		return "difference"
	}
	return "unknown"
}

func ParseSelector(s string) (Selector, error) {
	switch s {
	case "previous":
		return SelectorPrevious, nil
	case "next":
		return SelectorNext, nil
	case "difference", "diff":
		return SelectorDifference, nil
	}
	return 0, xerrors.Errorf("unknown selector: %s", s)
}

// ViewState is the image currently being displayed.
type ViewState int

const (
	Uninitialized ViewState = iota
	ShowingPrevious
	ShowingNext
	ShowingDifference
)

func (v ViewState) String() string {
	switch v {
	case ShowingPrevious:
		return "showing-previous"
	case ShowingNext:
		return "showing-next"
	case ShowingDifference:
		return "showing-difference"
	}
	return "uninitialized"
}

// Selector returns the slot rendered in this state. ok is false while
// uninitialized.
func (v ViewState) Selector() (Selector, bool) {
	switch v {
	case ShowingPrevious:
		return SelectorPrevious, true
	case ShowingNext:
		return SelectorNext, true
	case ShowingDifference:
		return SelectorDifference, true
	}
	return 0, false
}

// Policy decides when the difference image is recomputed.
type Policy int

const (
	// PolicyManual recomputes only on an explicit action.
	PolicyManual Policy = iota
	// PolicyAutomatic also recomputes whenever next is loaded.
	PolicyAutomatic
)

func (p Policy) String() string {
	if p == PolicyAutomatic {
		return "automatic"
	}
	return "manual"
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "manual":
		return PolicyManual, nil
	case "automatic", "auto":
		return PolicyAutomatic, nil
	}
	return 0, xerrors.Errorf("unknown recompute policy: %s", s)
}
