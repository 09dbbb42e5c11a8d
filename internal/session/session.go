package session

import (
	"context"
	"errors"
	"image"
	diffimage "layer-comparator/internal/diff/image"
	"layer-comparator/internal/raster"
	"log/slog"

	"golang.org/x/xerrors"
)

// ControlMargin is the height reserved for controls below the image when
// sizing a window around the first loaded image.
const ControlMargin = 100

// Reader fetches raw file bytes by path or storage key.
type Reader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Config struct {
	Policy Policy
	// Differ defaults to an absolute per-channel difference.
	Differ diffimage.Differ
	Logger *slog.Logger
}

// Session owns the previous, next and difference images and the selector
// state. It is not safe for concurrent use; callers serialize access.
type Session struct {
	reader Reader
	differ diffimage.Differ
	policy Policy
	logger *slog.Logger

	previous *raster.Buffer
	next     *raster.Buffer
	result   *diffimage.DiffResult
	fresh    bool

	state             ViewState
	previousSelection SelectionPath
	nextSelection     SelectionPath

	footprint    image.Point
	hasFootprint bool

	listeners []func(Event)
}

func New(reader Reader, c Config) *Session {
	if c.Differ == nil {
		c.Differ = diffimage.NewAbsoluteDiff()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return &Session{
		reader: reader,
		differ: c.Differ,
		policy: c.Policy,
		logger: c.Logger,
		state:  Uninitialized,
	}
}

func (s *Session) Policy() Policy {
	return s.policy
}

func (s *Session) State() ViewState {
	return s.state
}

// LoadPrevious replaces the previous image with the one at path. On failure
// the previous image and the difference are left untouched.
func (s *Session) LoadPrevious(ctx context.Context, path string) (*raster.Buffer, error) {
	return s.load(ctx, SelectorPrevious, path)
}

// LoadNext replaces the next image with the one at path. Under the automatic
// policy a fresh difference is computed when previous is present; a failed
// recompute is reported as an event and does not fail the load.
func (s *Session) LoadNext(ctx context.Context, path string) (*raster.Buffer, error) {
	buf, err := s.load(ctx, SelectorNext, path)
	if err != nil {
		return nil, err
	}

	if s.policy == PolicyAutomatic && s.previous != nil {
		if _, err := s.RecomputeDifference(); err != nil {
			s.logger.Warn("automatic recompute failed", "error", err)
		}
	}

	return buf, nil
}

func (s *Session) loadSlot(ctx context.Context, slot Selector, path string) (*raster.Buffer, error) {
	switch slot {
	case SelectorPrevious:
		return s.LoadPrevious(ctx, path)
	case SelectorNext:
		return s.LoadNext(ctx, path)
	}
	return nil, xerrors.Errorf("cannot load into the %s slot", slot)
}

func (s *Session) load(ctx context.Context, slot Selector, path string) (*raster.Buffer, error) {
	data, err := s.reader.Get(ctx, path)
	if err != nil {
		return nil, s.loadFailed(slot, path, err)
	}

	buf, format, err := raster.DecodeBytes(data)
	if err != nil {
		return nil, s.loadFailed(slot, path, err)
	}
	if buf.Empty() {
		return nil, s.loadFailed(slot, path, xerrors.New("image has no pixels"))
	}

	if slot == SelectorPrevious {
		s.previous = buf
	} else {
		s.next = buf
	}
	s.fresh = false

	if !s.hasFootprint {
		s.footprint = image.Pt(buf.Width, buf.Height)
		s.hasFootprint = true
	}

	s.logger.Info("loaded image", "slot", slot.String(), "path", path, "format", format, "width", buf.Width, "height", buf.Height)
	s.emit(Event{Kind: EventLoaded, Selector: slot})

	if s.state == Uninitialized && s.previous != nil && s.next != nil {
		s.setState(ShowingPrevious)
	}

	return buf, nil
}

func (s *Session) loadFailed(slot Selector, path string, err error) error {
	e := &ImageLoadError{Path: path, Err: err}
	s.logger.Warn("failed to load image", "slot", slot.String(), "path", path, "error", err)
	s.emit(Event{Kind: EventLoadFailed, Selector: slot, Err: e})
	return e
}

// RecomputeDifference replaces the difference with |previous - next|. A
// dimension mismatch leaves the prior difference in place.
func (s *Session) RecomputeDifference() (*raster.Buffer, error) {
	if s.previous == nil || s.next == nil {
		return nil, ErrNotReady
	}

	result, err := s.differ.Calculate(s.previous, s.next)
	if err != nil {
		s.logger.Warn("failed to compute difference", "error", err)
		s.emit(Event{Kind: EventRecomputeFailed, Selector: SelectorDifference, Err: err})
		return nil, err
	}

	s.result = result
	s.fresh = true

	s.logger.Info("computed difference", "diffAmount", result.DiffAmount, "regions", len(result.Regions))
	s.emit(Event{Kind: EventRecomputed, Selector: SelectorDifference})

	return result.Image, nil
}

// SelectByHierarchy loads the variant file named by p into slot.
func (s *Session) SelectByHierarchy(ctx context.Context, slot Selector, p SelectionPath) (*raster.Buffer, error) {
	if slot != SelectorPrevious && slot != SelectorNext {
		return nil, xerrors.Errorf("cannot select into the %s slot", slot)
	}
	if err := p.Validate(); err != nil {
		return nil, &ImageLoadError{Path: p.Key(), Err: err}
	}

	buf, err := s.loadSlot(ctx, slot, p.Key())
	if err != nil {
		return nil, err
	}

	if slot == SelectorPrevious {
		s.previousSelection = p
	} else {
		s.nextSelection = p
	}
	s.emit(Event{Kind: EventSelectionChanged, Selector: slot})

	return buf, nil
}

// Selection returns the last path successfully selected into slot.
func (s *Session) Selection(slot Selector) SelectionPath {
	if slot == SelectorNext {
		return s.nextSelection
	}
	if slot == SelectorPrevious {
		return s.previousSelection
	}
	return SelectionPath{}
}

// CurrentView returns the buffer for selector, or nil when it is not ready.
// The difference may be stale; see DifferenceFresh.
func (s *Session) CurrentView(selector Selector) *raster.Buffer {
	switch selector {
	case SelectorPrevious:
		return s.previous
	case SelectorNext:
		return s.next
	case SelectorDifference:
		if s.result != nil {
			return s.result.Image
		}
	}
	return nil
}

// Displayed returns the buffer for the current view state.
func (s *Session) Displayed() *raster.Buffer {
	selector, ok := s.state.Selector()
	if !ok {
		return nil
	}
	return s.CurrentView(selector)
}

// DifferenceFresh reports whether the stored difference matches the current
// previous and next images.
func (s *Session) DifferenceFresh() bool {
	return s.result != nil && s.fresh
}

// DiffResult returns the last computed difference with its statistics.
func (s *Session) DiffResult() *diffimage.DiffResult {
	return s.result
}

// WindowFootprint is the first loaded image size plus ControlMargin.
func (s *Session) WindowFootprint() (int, int, bool) {
	if !s.hasFootprint {
		return 0, 0, false
	}
	return s.footprint.X, s.footprint.Y + ControlMargin, true
}

func (s *Session) ShowPrevious() bool {
	if s.previous == nil {
		return false
	}
	s.setState(ShowingPrevious)
	return true
}

func (s *Session) ShowNext() bool {
	if s.next == nil {
		return false
	}
	s.setState(ShowingNext)
	return true
}

// ShowDifference switches to the difference, recomputing it when stale. It
// is a silent no-op while either source is missing and leaves the state
// unchanged when the recompute fails or yields an empty image.
func (s *Session) ShowDifference() error {
	if s.previous == nil || s.next == nil {
		return nil
	}

	if !s.DifferenceFresh() {
		if _, err := s.RecomputeDifference(); err != nil {
			if errors.Is(err, ErrNotReady) {
				return nil
			}
			return err
		}
	}

	if s.result.Image.Empty() {
		return nil
	}

	s.setState(ShowingDifference)
	return nil
}

func (s *Session) setState(v ViewState) {
	if s.state == v {
		return
	}
	s.state = v
	selector, _ := v.Selector()
	s.emit(Event{Kind: EventViewChanged, Selector: selector, State: v})
}
