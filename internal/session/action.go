package session

import (
	"context"

	"golang.org/x/xerrors"
)

type Action int

const (
	ActionShowPrevious Action = iota
	ActionShowNext
	ActionShowDifference
	ActionRecompute
	ActionLoadPrevious
	ActionLoadNext
)

var actionNames = map[Action]string{
	ActionShowPrevious:   "show-previous",
	ActionShowNext:       "show-next",
	ActionShowDifference: "show-difference",
	ActionRecompute:      "recompute",
	ActionLoadPrevious:   "load-previous",
	ActionLoadNext:       "load-next",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, xerrors.Errorf("unknown action: %s", s)
}

// Command is one user intent. Load actions take either a Path or a
// Selection; Selection wins when both are set.
type Command struct {
	Action    Action
	Path      string
	Selection *SelectionPath
}

// Dispatch applies c to the session. Button presses, shortcuts and dropdown
// changes all arrive here.
func (s *Session) Dispatch(ctx context.Context, c Command) error {
	switch c.Action {
	case ActionShowPrevious:
		s.ShowPrevious()
		return nil
	case ActionShowNext:
		s.ShowNext()
		return nil
	case ActionShowDifference:
		return s.ShowDifference()
	case ActionRecompute:
		_, err := s.RecomputeDifference()
		return err
	case ActionLoadPrevious, ActionLoadNext:
		slot := SelectorPrevious
		if c.Action == ActionLoadNext {
			slot = SelectorNext
		}
		if c.Selection != nil {
			_, err := s.SelectByHierarchy(ctx, slot, *c.Selection)
			return err
		}
		if c.Path == "" {
			return xerrors.Errorf("%s requires a path or a selection", c.Action)
		}
		_, err := s.loadSlot(ctx, slot, c.Path)
		return err
	}
	return xerrors.Errorf("unknown action: %d", c.Action)
}
