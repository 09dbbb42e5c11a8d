package session

import (
	"path"
	"strings"

	"golang.org/x/xerrors"
)

// SelectionPath identifies a variant file as context/version/variant.
type SelectionPath struct {
	Context string `json:"context"`
	Version string `json:"version"`
	Variant string `json:"variant"`
}

func (p SelectionPath) Validate() error {
	for _, segment := range []string{p.Context, p.Version, p.Variant} {
		if err := ValidateSegment(segment); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSegment accepts a single non-empty path element.
func ValidateSegment(segment string) error {
	if segment == "" || segment == "." || segment == ".." || strings.ContainsAny(segment, `/\`) {
		return xerrors.Errorf("invalid selection segment %q", segment)
	}
	return nil
}

// Key joins the segments into a slash separated storage key.
func (p SelectionPath) Key() string {
	return path.Join(p.Context, p.Version, p.Variant)
}

func (p SelectionPath) IsZero() bool {
	return p == SelectionPath{}
}
